package domain

// Preferences is the persisted client state.
// Absence of a saved value means light mode.
type Preferences struct {
	DarkMode bool `toml:"darkMode"`
}
