package service

import (
	"context"
	"strconv"
	"time"

	"lacasita/internal/domain"
	"lacasita/internal/events"
	"lacasita/internal/models"

	"github.com/rs/zerolog"
)

const journalWriteTimeout = 5 * time.Second

// JournalRecorder writes successful loads and submits to the local journal.
type JournalRecorder struct {
	journal domain.Journal
	logger  *zerolog.Logger
}

func NewJournalRecorder(journal domain.Journal, logger *zerolog.Logger) *JournalRecorder {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &JournalRecorder{journal: journal, logger: logger}
}

// Subscribe attaches the recorder to the bus.
func (r *JournalRecorder) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventReservationSubmitted, r.handler(models.JournalSubmitted))
	bus.Subscribe(events.EventReservationLoaded, r.handler(models.JournalLoaded))
	bus.Subscribe(events.EventReservationFailed, func(event *events.Event) error {
		var p events.ReservationEventPayload
		if err := event.Decode(&p); err != nil {
			return err
		}
		r.logger.Warn().
			Int64("chat_id", p.ChatID).
			Str("reservation_id", p.ReservationID).
			Str("error", p.Error).
			Msg("reservation request failed")
		return nil
	})
}

func (r *JournalRecorder) handler(kind string) events.EventHandler {
	return func(event *events.Event) error {
		var p events.ReservationEventPayload
		if err := event.Decode(&p); err != nil {
			return err
		}

		diners, _ := strconv.Atoi(p.Diners)
		entry := &models.JournalEntry{
			ChatID:    p.ChatID,
			Kind:      kind,
			BackendID: p.ReservationID,
			Name:      p.Name,
			Email:     p.Email,
			Phone:     p.Phone,
			Date:      p.Date,
			Time:      p.Time,
			Diners:    diners,
			Seating:   p.Seating,
			Pickup:    p.Pickup,
			CreatedAt: event.CreatedAt,
		}

		ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
		defer cancel()
		return r.journal.Record(ctx, entry)
	}
}
