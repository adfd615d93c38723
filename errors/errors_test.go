package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "node 42")

	assert.Contains(t, wrapped.Error(), "node 42")
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.False(t, Is(wrapped, ErrInvalidRequest))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("dataset missing"), "check dataset.source")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check dataset.source", hints[0])
}

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrNotFound, true},
		{"constructed", NewNotFoundError("node %s", "X"), true},
		{"other", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFoundError(tt.err))
		})
	}
}

func TestNewInvalidRequestError(t *testing.T) {
	err := NewInvalidRequestError("unknown message type %q", "warp")

	assert.True(t, IsInvalidRequestError(err))
	assert.Contains(t, err.Error(), `unknown message type "warp"`)
	assert.False(t, IsInvalidRequestError(nil))
}
