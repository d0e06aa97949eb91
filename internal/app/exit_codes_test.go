package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		response Response
		expected int
		outcome  Outcome
	}{
		{name: "opened", response: Response{Success: true}, expected: ExitOpened, outcome: Opened},
		{name: "too long", response: failure(ReasonHardLimitExceeded), expected: ExitTooLong, outcome: RejectedTooLong},
		{name: "not found", response: failure(ReasonNotFound), expected: ExitNotFound, outcome: RejectedNotFound},
		{name: "unexpected", response: failure(ReasonUnexpectedError), expected: ExitUnexpected, outcome: RejectedUnexpected},
		{name: "empty selection", response: failure(ReasonEmptySelection), expected: ExitEmptySelection, outcome: RejectedEmptySelection},
		{name: "unknown reason", response: failure("something-else"), expected: ExitUnexpected, outcome: RejectedUnexpected},
		{name: "failure without reason", response: Response{}, expected: ExitUnexpected, outcome: RejectedUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.outcome, tt.response.Outcome())
			assert.Equal(t, tt.expected, ExitCode(tt.response))
		})
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "opened", Opened.String())
	assert.Equal(t, "rejected: too long", RejectedTooLong.String())
	assert.Equal(t, "rejected: unexpected error", RejectedUnexpected.String())
}
