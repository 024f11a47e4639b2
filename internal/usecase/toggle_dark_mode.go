package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/todo/internal/domain"
)

// ToggleDarkModeInput contains the parameters for toggling dark mode.
type ToggleDarkModeInput struct {
	// Current is the flag as the caller sees it. The persisted value is not
	// re-read, so the toggle always flips what the user is looking at.
	Current bool
	// Set, when non-nil, saves this value instead of flipping Current.
	Set *bool
}

// ToggleDarkModeOutput contains the new flag.
type ToggleDarkModeOutput struct {
	DarkMode bool
}

// ToggleDarkMode is the use case for flipping and persisting the dark-mode flag.
type ToggleDarkMode struct {
	prefs domain.PreferenceStore
}

// NewToggleDarkMode creates a new ToggleDarkMode use case.
func NewToggleDarkMode(prefs domain.PreferenceStore) *ToggleDarkMode {
	return &ToggleDarkMode{
		prefs: prefs,
	}
}

// Execute flips the flag (or applies Set) and saves it. On a save error the flag is still
// returned flipped, together with the error, so the UI can keep the new theme.
func (uc *ToggleDarkMode) Execute(_ context.Context, in ToggleDarkModeInput) (*ToggleDarkModeOutput, error) {
	out := &ToggleDarkModeOutput{DarkMode: !in.Current}
	if in.Set != nil {
		out.DarkMode = *in.Set
	}

	prefs, err := uc.prefs.Load()
	if err != nil {
		prefs = domain.Preferences{}
	}
	prefs.DarkMode = out.DarkMode
	if err := uc.prefs.Save(prefs); err != nil {
		return out, fmt.Errorf("save preferences: %w", err)
	}
	return out, nil
}
