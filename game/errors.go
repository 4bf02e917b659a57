package game

import "github.com/pkg/errors"

// Sentinel errors shared by both variants' rule engines, search, and
// the training pipeline. Callers recover the sentinel with
// errors.Cause.
var (
	ErrInvalidAction    = errors.New("action not in legal move set")
	ErrHandUnderflow    = errors.New("hand underflow: piece type not present")
	ErrEmptyLegalSet    = errors.New("no legal moves available")
	ErrTerminalState    = errors.New("apply_move called on terminal state")
	ErrInferenceFailure = errors.New("neural network inference failed")
)
