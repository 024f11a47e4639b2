package domain

// DeletePhase is the state of the two-step delete confirmation.
type DeletePhase int

// Delete phases. Confirmed and Cancelled are transient: Settle returns to Idle.
const (
	DeleteIdle DeletePhase = iota
	DeletePending
	DeleteConfirmed
	DeleteCancelled
)

func (p DeletePhase) String() string {
	switch p {
	case DeleteIdle:
		return "idle"
	case DeletePending:
		return "pending"
	case DeleteConfirmed:
		return "confirmed"
	case DeleteCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// DeleteFlow tracks the task selected for deletion.
// The zero value is idle.
type DeleteFlow struct {
	target string
	phase  DeletePhase
}

// Phase returns the current phase.
func (f *DeleteFlow) Phase() DeletePhase {
	return f.phase
}

// Target returns the selected task id, empty when idle.
func (f *DeleteFlow) Target() string {
	return f.target
}

// DialogOpen reports whether a confirmation is awaiting an answer.
func (f *DeleteFlow) DialogOpen() bool {
	return f.phase == DeletePending
}

// Request selects id for deletion and opens the dialog.
// Selecting another task while pending replaces the target.
func (f *DeleteFlow) Request(id string) error {
	if id == "" {
		return ErrNoDeleteTarget
	}
	f.target = id
	f.phase = DeletePending
	return nil
}

// Confirm accepts the pending deletion and returns its target.
func (f *DeleteFlow) Confirm() (string, error) {
	if f.phase != DeletePending {
		return "", ErrNoDeleteTarget
	}
	f.phase = DeleteConfirmed
	return f.target, nil
}

// Cancel rejects the pending deletion. Returns false if nothing was pending.
func (f *DeleteFlow) Cancel() bool {
	if f.phase != DeletePending {
		return false
	}
	f.phase = DeleteCancelled
	return true
}

// Settle returns a confirmed or cancelled flow to idle.
func (f *DeleteFlow) Settle() {
	if f.phase == DeleteConfirmed || f.phase == DeleteCancelled {
		f.phase = DeleteIdle
		f.target = ""
	}
}
