package donations

import (
	"net/http"
	"testing"

	"github.com/blooner/bloodlink/internal/pkg/response"
	apperrors "github.com/blooner/bloodlink/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{StatusPending, StatusInProgress, StatusDone, StatusCanceled}

// The conditional update filters on sourcesOf(next), so it must agree with
// CanTransitionTo for every pair, including same-state and terminal moves.
func TestSourcesOfMatchesTransitionTable(t *testing.T) {
	for _, next := range allStatuses {
		t.Run(string(next), func(t *testing.T) {
			var want []Status
			for _, s := range allStatuses {
				if s.CanTransitionTo(next) {
					want = append(want, s)
				}
			}

			got := sourcesOf(next)
			assert.ElementsMatch(t, want, got)
			assert.NotContains(t, got, next, "same-state move must not match")
			assert.NotContains(t, got, StatusDone, "done is terminal")
			assert.NotContains(t, got, StatusCanceled, "canceled is terminal")
		})
	}
}

func TestTerminalStatesHaveNoTargets(t *testing.T) {
	for _, from := range []Status{StatusDone, StatusCanceled} {
		for _, next := range allStatuses {
			assert.False(t, from.CanTransitionTo(next), "%s -> %s", from, next)
		}
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		from, next Status
		ok         bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusDone, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusDone, true},
		{StatusInProgress, StatusPending, true},
		{StatusInProgress, StatusInProgress, false},
		{StatusDone, StatusCanceled, false},
		{StatusCanceled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.next), func(t *testing.T) {
			err := checkTransition(tt.from, tt.next)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, http.StatusConflict, response.StatusFor(apperrors.KindOf(err)))
			assert.Equal(t, "INVALID_TRANSITION", err.(*apperrors.Error).Code)
			assert.Equal(t, TransitionError(tt.from, tt.next), err.(*apperrors.Error).Message)
		})
	}
}

func TestRacedMissIsConflict(t *testing.T) {
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(errStatusRaced))
	assert.Equal(t, "INVALID_TRANSITION", errStatusRaced.Code)
}
