package replay

import (
	"errors"
	"fmt"
)

type ReplayError struct {
	StepIndex int32          `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

type ExpectedState struct {
	Player        string   `json:"player"`
	TurnSeat      int      `json:"turn_seat"`
	ValidCommands []string `json:"valid_commands,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

// AsReplayError returns err as a *ReplayError, wrapping foreign errors.
func AsReplayError(err error) *ReplayError {
	if err == nil {
		return nil
	}
	var replayErr *ReplayError
	if errors.As(err, &replayErr) {
		return replayErr
	}
	return &ReplayError{StepIndex: -1, Reason: "replay_generation_failed", Message: err.Error()}
}
