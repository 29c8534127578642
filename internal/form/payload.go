package form

import (
	"fmt"
	"strconv"
	"strings"

	"lacasita/internal/models"
)

// Validate checks the draft the way the submit path does, without building a payload.
func Validate(d models.Draft) error {
	_, err := BuildPayload(d)
	return err
}

// BuildPayload turns a draft into the body of POST /api/reservations.
func BuildPayload(d models.Draft) (models.Payload, error) {
	if d.Name == "" || d.Email == "" || d.Date == "" {
		return models.Payload{}, &ValidationError{Message: MsgRequiredFields}
	}

	diners, err := strconv.Atoi(strings.TrimSpace(d.Diners))
	if err != nil || diners < models.MinDiners || diners > models.MaxDiners {
		return models.Payload{}, &ValidationError{Message: MsgDinersRange}
	}

	return models.Payload{
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
		Date:    d.Date,
		Time:    d.Time.String(),
		Diners:  diners,
		Seating: d.Seating,
		Pickup:  d.Pickup,
	}, nil
}

// Hydrate maps a backend record onto a complete draft.
func Hydrate(r models.Record) (models.Draft, error) {
	t, err := models.ParseTime(r.Time)
	if err != nil {
		return models.Draft{}, fmt.Errorf("hydrate reservation: %w", err)
	}

	return models.Draft{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Date:    r.Date,
		Time:    t,
		Diners:  strconv.Itoa(int(r.Diners)),
		Seating: r.Seating,
		Pickup:  r.Pickup,
	}, nil
}
