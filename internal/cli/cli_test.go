package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lacasita/internal/database"
	"lacasita/internal/form"
	"lacasita/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) GetReservation(ctx context.Context, id, token string) (*models.Record, error) {
	args := m.Called(ctx, id, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Record), args.Error(1)
}

func (m *mockBackend) CreateReservation(ctx context.Context, payload models.Payload) (*models.SubmitResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitResult), args.Error(1)
}

func run(t *testing.T, b *mockBackend, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	logger := zerolog.New(io.Discard)

	root := NewRoot(Options{
		Clock:   form.FixedClock(time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)),
		Backend: b,
		Logger:  &logger,
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestWeekCommand(t *testing.T) {
	out, err := run(t, new(mockBackend), "week")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, models.DaysInWeek)
	assert.Equal(t, "2024-06-02 Sun", lines[0])
	assert.Equal(t, "2024-06-08 Sat", lines[6])

	out, err = run(t, new(mockBackend), "week", "--offset", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2024-06-16 Sun"))

	out, err = run(t, new(mockBackend), "week", "--offset", "-3")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2024-06-02 Sun"))
}

func TestLoadCommand(t *testing.T) {
	b := new(mockBackend)
	b.On("GetReservation", mock.Anything, "7", "tok").Return(&models.Record{
		Name: "Ana", Email: "ana@example.com", Date: "2024-06-20",
		Time: "11:30 AM", Diners: 4, Seating: "outside", Pickup: "yes",
	}, nil).Once()

	out, err := run(t, b, "load", "--id", "7", "--token", "tok")
	require.NoError(t, err)

	var d models.Draft
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "Ana", d.Name)
	assert.Equal(t, "4", d.Diners)
	assert.Equal(t, models.Time{Hour: 11, Minute: 30, AMPM: models.AM}, d.Time)

	_, err = run(t, new(mockBackend), "load", "--id", "7")
	assert.Error(t, err)

	failing := new(mockBackend)
	failing.On("GetReservation", mock.Anything, "7", "bad").Return(nil, errors.New("http 403")).Once()
	_, err = run(t, failing, "load", "--id", "7", "--token", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), form.MsgLoadFailed)
}

func TestSubmitCommand(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		b := new(mockBackend)
		b.On("CreateReservation", mock.Anything, models.Payload{
			Name: "Jane", Email: "j@x.com", Phone: "",
			Date: "2024-06-09", Time: "7:05 PM", Diners: 2,
			Seating: "outside", Pickup: "no",
		}).Return(&models.SubmitResult{Data: map[string]any{"id": "r-1"}}, nil).Once()

		out, err := run(t, b, "submit",
			"--name", "Jane", "--email", "j@x.com", "--date", "2024-06-09",
			"--time", "7:05 PM", "--diners", "2", "--seating", "outside")
		require.NoError(t, err)
		assert.Contains(t, out, "Success: "+form.MsgSubmitted)
		assert.Contains(t, out, `"r-1"`)
		b.AssertExpectations(t)
	})

	t.Run("Validation", func(t *testing.T) {
		b := new(mockBackend)
		_, err := run(t, b, "submit", "--name", "Jane", "--date", "2024-06-09")
		require.Error(t, err)
		assert.Equal(t, form.MsgRequiredFields, err.Error())
		b.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
	})

	t.Run("BadInput", func(t *testing.T) {
		_, err := run(t, new(mockBackend), "submit", "--time", "25:00 PM")
		assert.ErrorIs(t, err, models.ErrInvalidTime)

		_, err = run(t, new(mockBackend), "submit", "--date", "2024-05-01")
		assert.ErrorIs(t, err, form.ErrDateOutsideWindow)

		_, err = run(t, new(mockBackend), "submit", "--diners", "0")
		assert.ErrorIs(t, err, form.ErrInvalidOption)
	})

	t.Run("EditExisting", func(t *testing.T) {
		b := new(mockBackend)
		b.On("GetReservation", mock.Anything, "7", "tok").Return(&models.Record{
			Name: "Ana", Email: "ana@example.com", Date: "2024-06-20",
			Time: "11:30 AM", Diners: 4, Seating: "outside", Pickup: "yes",
		}, nil).Once()
		b.On("CreateReservation", mock.Anything, mock.MatchedBy(func(p models.Payload) bool {
			return p.Name == "Ana" && p.Diners == 6 && p.Date == "2024-06-20" && p.Time == "11:30 AM"
		})).Return(&models.SubmitResult{}, nil).Once()

		out, err := run(t, b, "submit", "--id", "7", "--token", "tok", "--diners", "6")
		require.NoError(t, err)
		assert.Equal(t, "Success: "+form.MsgSubmitted+"\n", out)
		b.AssertExpectations(t)
	})
}

func TestSubmitRecordsJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	dbPath := filepath.Join(dir, "journal.db")
	require.NoError(t, writeFile(path, "database:\n  path: \""+dbPath+"\"\n"))

	b := new(mockBackend)
	b.On("CreateReservation", mock.Anything, mock.Anything).Return(&models.SubmitResult{}, nil).Once()

	_, err := run(t, b, "--config", path, "submit",
		"--name", "Jane", "--email", "j@x.com", "--date", "2024-06-06")
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	entries, err := db.ListByChat(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.JournalSubmitted, entries[0].Kind)
	assert.Equal(t, "Jane", entries[0].Name)
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
