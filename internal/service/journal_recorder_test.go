package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lacasita/internal/events"
	"lacasita/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockJournal struct {
	mock.Mock
}

func (m *mockJournal) Record(ctx context.Context, entry *models.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockJournal) ListByChat(ctx context.Context, chatID int64, limit int) ([]*models.JournalEntry, error) {
	args := m.Called(ctx, chatID, limit)
	return args.Get(0).([]*models.JournalEntry), args.Error(1)
}

func (m *mockJournal) ListBetween(ctx context.Context, from, to time.Time) ([]*models.JournalEntry, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.JournalEntry), args.Error(1)
}

func TestJournalRecorder(t *testing.T) {
	journal := new(mockJournal)
	bus := events.NewEventBus()
	NewJournalRecorder(journal, nil).Subscribe(bus)

	journal.On("Record", mock.Anything, mock.MatchedBy(func(e *models.JournalEntry) bool {
		return e.Kind == models.JournalSubmitted && e.ChatID == 4 && e.Diners == 2 && e.BackendID == "r-1"
	})).Return(nil).Once()

	require.NoError(t, bus.PublishJSON(events.EventReservationSubmitted, events.ReservationEventPayload{
		ChatID: 4, ReservationID: "r-1", Name: "Jane", Email: "j@x.com",
		Date: "2024-06-09", Time: "7:05 PM", Diners: "2", Seating: "outside", Pickup: "no",
	}))

	require.NoError(t, bus.PublishJSON(events.EventReservationFailed, events.ReservationEventPayload{
		ChatID: 4, Error: "Server error: 500",
	}))

	journal.AssertExpectations(t)
}

func TestJournalRecorderReportsErrors(t *testing.T) {
	journal := new(mockJournal)
	bus := events.NewEventBus()
	NewJournalRecorder(journal, nil).Subscribe(bus)

	var got error
	bus.OnError(func(_ *events.Event, err error) { got = err })

	journal.On("Record", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	require.NoError(t, bus.PublishJSON(events.EventReservationLoaded, events.ReservationEventPayload{ChatID: 1, Diners: "4"}))

	assert.EqualError(t, got, "disk full")
}
