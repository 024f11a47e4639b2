package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewState_Encode(t *testing.T) {
	tests := []struct {
		name string
		view ViewState
		want string
	}{
		{"defaults", DefaultViewState(), "limit=5&page=1"},
		{
			name: "all filters",
			view: ViewState{Page: 2, Limit: 10, Status: StatusInProgress, Overdue: true, Search: "milk run"},
			want: "limit=10&overdue=true&page=2&search=milk+run&status=1",
		},
		{"blank search omitted", ViewState{Page: 1, Limit: 5, Search: "  "}, "limit=5&page=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.Encode())
		})
	}
}

func TestParseViewState(t *testing.T) {
	v, err := ParseViewState("?page=3&limit=20&status=COMPLETED&overdue=1&search=report")
	require.NoError(t, err)

	assert.Equal(t, ViewState{Page: 3, Limit: 20, Status: StatusCompleted, Overdue: true, Search: "report"}, v)
}

func TestParseViewState_Defaults(t *testing.T) {
	v, err := ParseViewState("")
	require.NoError(t, err)
	assert.Equal(t, DefaultViewState(), v)
}

func TestParseViewState_RoundTrip(t *testing.T) {
	want := ViewState{Page: 4, Limit: 10, Status: StatusPending, Search: "a&b"}

	got, err := ParseViewState(want.Encode())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseViewState_Errors(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr error
	}{
		{"page=0", ErrInvalidPage},
		{"page=x", ErrInvalidPage},
		{"limit=0", ErrInvalidLimit},
		{"limit=1000", ErrInvalidLimit},
		{"status=9", ErrInvalidStatus},
		{"overdue=maybe", ErrInvalidView},
		{"%zz", ErrInvalidView},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ParseViewState(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestViewState_Query(t *testing.T) {
	v := ViewState{Page: 2, Limit: 5, Status: StatusInProgress, Overdue: true, Search: "x"}

	assert.Equal(t, TaskQuery{Status: StatusInProgress, Page: 2, Limit: 5, Overdue: true}, v.Query())
	assert.True(t, v.Searching())
}

func TestNextLimit(t *testing.T) {
	assert.Equal(t, 10, NextLimit(5))
	assert.Equal(t, 20, NextLimit(10))
	assert.Equal(t, 5, NextLimit(20))
	assert.Equal(t, 5, NextLimit(7))
}
