package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"lacasita/internal/backend"
	"lacasita/internal/form"
	"lacasita/internal/metrics"
	"lacasita/internal/models"
	"lacasita/internal/repository"

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

func newTestFormService(b *mockBackend) (*FormService, *repository.MemoryDraftRepository) {
	repo := repository.NewMemoryDraftRepository(time.Hour)
	clock := form.FixedClock(time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC))
	return NewFormService(repo, b, nil, clock, nil), repo
}

func TestFormServiceOpenAndPersist(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestFormService(new(mockBackend))

	st, step := svc.Open(ctx, 42)
	assert.Equal(t, models.StepIdle, step)
	assert.Equal(t, models.DefaultDraft(), st.Draft())

	st.SetName("Jane")
	svc.SetStep(ctx, 42, models.StepEnterEmail)

	snap, err := repo.GetDraft(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "Jane", snap.Draft.Name)
	assert.Equal(t, models.StepEnterEmail, snap.Step)
	assert.Equal(t, int64(42), snap.ChatID)

	again, step := svc.Open(ctx, 42)
	assert.Same(t, st, again)
	assert.Equal(t, models.StepEnterEmail, step)
}

func TestFormServiceRestoresFromRepository(t *testing.T) {
	ctx := context.Background()
	b := new(mockBackend)
	svc, repo := newTestFormService(b)

	draft := models.DefaultDraft()
	draft.Name = "Ana"
	require.NoError(t, repo.SaveDraft(ctx, &models.FormSnapshot{
		ChatID: 7,
		Step:   models.StepEnterPhone,
		Draft:  draft,
	}))

	st, step := svc.Open(ctx, 7)
	assert.Equal(t, "Ana", st.Draft().Name)
	assert.Equal(t, models.StepEnterPhone, step)
}

func TestFormServiceStartWithSession(t *testing.T) {
	ctx := context.Background()
	b := new(mockBackend)
	svc, _ := newTestFormService(b)

	old, _ := svc.Open(ctx, 1)
	old.SetName("stale")

	st := svc.Start(ctx, 1, &models.EditSession{ReservationID: "9", AccessToken: "tok"})
	assert.NotSame(t, old, st)
	assert.Equal(t, "", st.Draft().Name)

	b.On("GetReservation", mock.Anything, "9", "tok").Return(&models.Record{
		Name: "Ana", Email: "ana@example.com", Date: "2024-06-07",
		Time: "8:15 PM", Diners: 3, Seating: models.SeatingOutside, Pickup: models.PickupYes,
	}, nil).Once()

	require.NoError(t, svc.Load(ctx, 1))
	assert.Equal(t, "Ana", st.Draft().Name)
	assert.Equal(t, "3", st.Draft().Diners)
	b.AssertExpectations(t)
}

func TestFormServiceLoadWithoutSession(t *testing.T) {
	ctx := context.Background()
	b := new(mockBackend)
	svc, _ := newTestFormService(b)

	err := svc.Load(ctx, 3)
	assert.ErrorIs(t, err, form.ErrNoEditSession)
	b.AssertNotCalled(t, "GetReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestFormServiceSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessClearsDraft", func(t *testing.T) {
		b := new(mockBackend)
		svc, repo := newTestFormService(b)

		st, _ := svc.Open(ctx, 5)
		st.SetName("Jane")
		st.SetEmail("j@x.com")
		require.NoError(t, st.SelectDate("2024-06-06"))
		svc.SetStep(ctx, 5, models.StepEnterPhone)

		b.On("CreateReservation", mock.Anything, mock.MatchedBy(func(p models.Payload) bool {
			return p.Name == "Jane" && p.Date == "2024-06-06" && p.Time == "7:00 PM" && p.Diners == 1
		})).Return(&models.SubmitResult{Message: "ok"}, nil).Once()

		res, err := svc.Submit(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Message)
		assert.Equal(t, models.DefaultDraft(), st.Draft())

		snap, err := repo.GetDraft(ctx, 5)
		require.NoError(t, err)
		assert.Nil(t, snap)

		_, step := svc.Open(ctx, 5)
		assert.Equal(t, models.StepIdle, step)
	})

	t.Run("ValidationSkipsBackend", func(t *testing.T) {
		b := new(mockBackend)
		svc, _ := newTestFormService(b)

		_, err := svc.Submit(ctx, 6)
		require.Error(t, err)
		assert.True(t, form.IsValidationError(err))
		b.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
	})

	t.Run("FailureKeepsDraft", func(t *testing.T) {
		b := new(mockBackend)
		svc, repo := newTestFormService(b)

		st, _ := svc.Open(ctx, 8)
		st.SetName("Jane")
		st.SetEmail("j@x.com")
		require.NoError(t, st.SelectDate("2024-06-06"))
		svc.Save(ctx, 8)

		b.On("CreateReservation", mock.Anything, mock.Anything).
			Return(nil, &backend.BackendError{Op: backend.OpCreate, Status: 500, Message: "Server error: 500"}).Once()

		_, err := svc.Submit(ctx, 8)
		require.Error(t, err)
		assert.Equal(t, "Jane", st.Draft().Name)

		snap, err := repo.GetDraft(ctx, 8)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.Equal(t, "Jane", snap.Draft.Name)
	})
}

func TestFormServiceDiscard(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestFormService(new(mockBackend))

	st, _ := svc.Open(ctx, 11)
	st.SetName("Jane")
	svc.Save(ctx, 11)

	require.NoError(t, svc.Discard(ctx, 11))
	snap, err := repo.GetDraft(ctx, 11)
	require.NoError(t, err)
	assert.Nil(t, snap)

	fresh, _ := svc.Open(ctx, 11)
	assert.Equal(t, "", fresh.Draft().Name)
}

func TestFormServiceRateLimit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestFormService(new(mockBackend))

	for i := 0; i < 2; i++ {
		ok, err := svc.CheckRateLimit(ctx, 1, 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := svc.CheckRateLimit(ctx, 1, 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeOK, outcome(nil))
	assert.Equal(t, metrics.OutcomeValidation, outcome(&form.ValidationError{Message: form.MsgRequiredFields}))
	assert.Equal(t, metrics.OutcomeValidation, outcome(form.ErrNoEditSession))
	assert.Equal(t, metrics.OutcomeBusy, outcome(form.ErrSubmitInFlight))
	assert.Equal(t, metrics.OutcomeTransportError, outcome(&backend.BackendError{Op: backend.OpGet, Err: errors.New("refused")}))
	assert.Equal(t, metrics.OutcomeHTTPError, outcome(&backend.BackendError{Op: backend.OpGet, Status: 404}))
}
