package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "ngx/pkg/domain-errors"
)

func TestParseClientStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		parsed, err := ParseClientStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseClientStatus("deleted")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestParseProgramType(t *testing.T) {
	for _, p := range AllProgramTypes() {
		parsed, err := ParseProgramType(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}

	_, err := ParseProgramType("bootcamp")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCanTransitionTo(t *testing.T) {
	t.Run("cancelled has no outgoing transitions", func(t *testing.T) {
		for _, next := range AllStatuses() {
			assert.False(t, StatusCancelled.CanTransitionTo(next), "cancelled -> %s must be rejected", next)
		}
	})

	t.Run("nothing transitions back to trial", func(t *testing.T) {
		for _, s := range AllStatuses() {
			assert.False(t, s.CanTransitionTo(StatusTrial), "%s -> trial must be rejected", s)
		}
	})

	t.Run("only active may pause", func(t *testing.T) {
		assert.True(t, StatusActive.CanTransitionTo(StatusPaused))
		for _, s := range []ClientStatus{StatusTrial, StatusInactive, StatusPaused} {
			assert.False(t, s.CanTransitionTo(StatusPaused), "%s -> paused must be rejected", s)
		}
	})

	t.Run("every non-terminal state may activate, deactivate, or cancel", func(t *testing.T) {
		for _, s := range []ClientStatus{StatusTrial, StatusActive, StatusInactive, StatusPaused} {
			assert.True(t, s.CanTransitionTo(StatusActive), "%s -> active must be allowed", s)
			assert.True(t, s.CanTransitionTo(StatusInactive), "%s -> inactive must be allowed", s)
			assert.True(t, s.CanTransitionTo(StatusCancelled), "%s -> cancelled must be allowed", s)
		}
	})

	t.Run("unknown target is rejected", func(t *testing.T) {
		assert.False(t, StatusActive.CanTransitionTo(ClientStatus("archived")))
	})
}

func TestStatusTerminality(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	for _, s := range []ClientStatus{StatusTrial, StatusActive, StatusInactive, StatusPaused} {
		assert.False(t, s.IsTerminal(), "status %s must not be terminal", s)
	}
}
