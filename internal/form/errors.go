package form

import "errors"

const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgDinersRange    = "Please select between 1 and 10 diners"
)

var (
	ErrSubmitInFlight    = errors.New("submission already in progress")
	ErrLoadInFlight      = errors.New("reservation load already in progress")
	ErrDateOutsideWindow = errors.New("date is not in the displayed week")
	ErrNoEditSession     = errors.New("reservation id and token are required")
	ErrInvalidOption     = errors.New("invalid option")
)

// ValidationError is a local problem with the draft. It never reaches the backend.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
