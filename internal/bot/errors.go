package bot

import "errors"

// ErrSessionExpired means a follow-up answer arrived but the data it refers
// to is gone from the session, e.g. after a restart.
var ErrSessionExpired = errors.New("session expired")

// ValidationError rejects one answer. The conversation stays on the same step
// and Msg is shown as the corrective prompt.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// ConsistencyError aborts the current flow. Nothing is saved, the draft is
// dropped and Msg is reported.
type ConsistencyError struct {
	Msg string
}

func (e *ConsistencyError) Error() string { return e.Msg }

func inconsistent(msg string) error {
	return &ConsistencyError{Msg: msg}
}
