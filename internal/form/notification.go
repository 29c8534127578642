package form

import "errors"

const (
	TitleSuccess = "Success"
	TitleError   = "Error"

	MsgSubmitted    = "Reservation submitted successfully!"
	MsgSubmitFailed = "Failed to submit reservation"
	MsgLoadFailed   = "Could not load reservation details"
	LabelSubmit     = "Submit Reservation"
	LabelSubmitting = "Submitting..."
)

// Notification is what a host shows the user after a load or submit.
type Notification struct {
	Title   string
	Message string
}

// SubmitNotification describes the outcome of Submit.
func SubmitNotification(err error) Notification {
	if err == nil {
		return Notification{Title: TitleSuccess, Message: MsgSubmitted}
	}
	msg := err.Error()
	if msg == "" {
		msg = MsgSubmitFailed
	}
	return Notification{Title: TitleError, Message: msg}
}

// LoadNotification describes a failed Load. A nil error yields an empty notification.
func LoadNotification(err error) Notification {
	if err == nil {
		return Notification{}
	}
	if errors.Is(err, ErrNoEditSession) {
		return Notification{Title: TitleError, Message: ErrNoEditSession.Error()}
	}
	return Notification{Title: TitleError, Message: MsgLoadFailed}
}
