package backend

import "fmt"

const (
	OpGet    = "get_reservation"
	OpCreate = "create_reservation"

	msgFetchFailed = "Failed to fetch reservation"
)

// BackendError is a failed call to the booking backend.
// Status is 0 when the request never got a response.
type BackendError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func serverError(op string, status int, message string) *BackendError {
	if message == "" {
		if op == OpGet {
			message = msgFetchFailed
		} else {
			message = fmt.Sprintf("Server error: %d", status)
		}
	}
	return &BackendError{Op: op, Status: status, Message: message}
}

func transportError(op string, err error) *BackendError {
	return &BackendError{Op: op, Message: err.Error(), Err: err}
}
