package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Status represents the lifecycle state of a task.
// The canonical form is the numeric string code used on the wire.
type Status string

const (
	StatusPending    Status = "0" // Created, not started
	StatusInProgress Status = "1" // Being worked on
	StatusCompleted  Status = "2" // Done
)

// AllStatuses returns all valid status values in display order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusInProgress,
		StatusCompleted,
	}
}

// statusAliases maps normalised names to their code.
var statusAliases = map[string]Status{
	"0":           StatusPending,
	"pending":     StatusPending,
	"todo":        StatusPending,
	"1":           StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"2":           StatusCompleted,
	"completed":   StatusCompleted,
	"complete":    StatusCompleted,
	"done":        StatusCompleted,
}

// ParseStatus converts any accepted spelling of a status into its code.
// Codes ("0"), enum names ("IN_PROGRESS") and display names ("In progress")
// are all accepted, case-insensitively.
func ParseStatus(s string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if st, ok := statusAliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// IsValid returns true if s is one of the canonical codes.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Name returns the enum name of the status.
func (s Status) Name() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return string(s)
	}
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// MarshalJSON always emits the code as a JSON string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON accepts a string in any accepted spelling or a bare number.
func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decode status: %w", err)
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode status: %w", err)
		}
		raw = n.String()
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// UnmarshalText is used by YAML and TOML decoders.
func (s *Status) UnmarshalText(text []byte) error {
	st, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
