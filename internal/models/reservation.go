package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Draft is the in-progress reservation held by a form.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    Time   `json:"time"`
	Diners  string `json:"diners"`
	Seating string `json:"seating"`
	Pickup  string `json:"pickup"`
}

// DefaultDraft returns the values a form starts with and is reset to.
func DefaultDraft() Draft {
	return Draft{
		Time:    DefaultTime(),
		Diners:  strconv.Itoa(DefaultDiners),
		Seating: SeatingInside,
		Pickup:  PickupNo,
	}
}

// Payload is the JSON body sent to POST /api/reservations.
type Payload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Diners  int    `json:"diners"`
	Seating string `json:"seating"`
	Pickup  string `json:"pickup"`
}

// Diners decodes a party size sent either as a JSON number or a numeric string.
type Diners int

func (d *Diners) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("diners: %w", err)
	}
	*d = Diners(n)
	return nil
}

// Record is a reservation as returned by GET /api/reservations/{id}.
type Record struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Diners  Diners `json:"diners"`
	Seating string `json:"seating"`
	Pickup  string `json:"pickup"`
}

// SubmitResult is the decoded body of a successful submit. Every field is optional.
type SubmitResult struct {
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReservationID returns the id the backend assigned, if it sent one.
func (r *SubmitResult) ReservationID() string {
	return r.dataString("id", "reservation_id")
}

// AccessToken returns the edit token the backend issued, if it sent one.
func (r *SubmitResult) AccessToken() string {
	return r.dataString("token", "access_token")
}

func (r *SubmitResult) dataString(keys ...string) string {
	if r == nil || r.Data == nil {
		return ""
	}
	for _, key := range keys {
		switch v := r.Data[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatInt(int64(v), 10)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

// EditSession identifies an existing reservation to hydrate a form from.
type EditSession struct {
	ReservationID string `json:"reservation_id"`
	AccessToken   string `json:"access_token"`
}

// Complete reports whether both parts are present.
func (s *EditSession) Complete() bool {
	return s != nil && s.ReservationID != "" && s.AccessToken != ""
}

// FormSnapshot is the persisted state of a chat's form between interactions.
type FormSnapshot struct {
	ChatID    int64        `json:"chat_id"`
	Step      string       `json:"step"`
	Draft     Draft        `json:"draft"`
	WeekStart time.Time    `json:"week_start"`
	Session   *EditSession `json:"session,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// JournalEntry is one row of the local reservation journal.
type JournalEntry struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Kind      string    `json:"kind"`
	BackendID string    `json:"backend_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Diners    int       `json:"diners"`
	Seating   string    `json:"seating"`
	Pickup    string    `json:"pickup"`
	CreatedAt time.Time `json:"created_at"`
}
