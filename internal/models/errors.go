package models

import "errors"

// ErrInvalidTransition matches every error returned when an operation is not
// allowed in the game's current state.
var ErrInvalidTransition = errors.New("invalid game transition")

// TransitionError is an operation rejected by the game state machine.
// errors.Is(err, ErrInvalidTransition) holds for every TransitionError.
type TransitionError struct {
	Reason string
}

func (e *TransitionError) Error() string {
	return "invalid game transition: " + e.Reason
}

// Is reports whether target is ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var (
	ErrGameFinished  = &TransitionError{Reason: "game is already finished"}
	ErrMalformedGame = &TransitionError{Reason: "game has no question for the current level"}
	ErrNothingToTake = &TransitionError{Reason: "nothing to take before the first correct answer"}

	ErrTimeExpired      = errors.New("game time limit expired")
	ErrCatalogExhausted = errors.New("not enough questions in catalog")
	ErrUnknownHelp      = errors.New("unknown help type")
)
