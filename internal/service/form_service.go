package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"lacasita/internal/backend"
	"lacasita/internal/domain"
	"lacasita/internal/form"
	"lacasita/internal/metrics"
	"lacasita/internal/models"

	"github.com/rs/zerolog"
)

const (
	actionLoad   = "load"
	actionSubmit = "submit"
)

type liveForm struct {
	state *form.State
	step  string
}

// FormService keeps one live form per chat and mirrors it into the draft repository.
type FormService struct {
	repo      domain.DraftRepository
	backend   domain.ReservationBackend
	publisher domain.EventPublisher
	clock     form.Clock
	logger    *zerolog.Logger

	mu   sync.Mutex
	live map[int64]*liveForm
}

func NewFormService(
	repo domain.DraftRepository,
	backend domain.ReservationBackend,
	publisher domain.EventPublisher,
	clock form.Clock,
	logger *zerolog.Logger,
) *FormService {
	if clock == nil {
		clock = form.RealClock{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &FormService{
		repo:      repo,
		backend:   backend,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		live:      make(map[int64]*liveForm),
	}
}

func (s *FormService) options(chatID int64, extra ...form.Option) []form.Option {
	l := s.logger.With().Int64("chat_id", chatID).Logger()
	opts := []form.Option{form.WithChatID(chatID), form.WithLogger(&l)}
	if s.publisher != nil {
		opts = append(opts, form.WithPublisher(s.publisher))
	}
	return append(opts, extra...)
}

// Open returns the chat's form, restoring it from the repository when it is not live.
func (s *FormService) Open(ctx context.Context, chatID int64) (*form.State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openLocked(ctx, chatID)
}

func (s *FormService) openLocked(ctx context.Context, chatID int64) (*form.State, string) {
	if lf, ok := s.live[chatID]; ok {
		return lf.state, lf.step
	}

	snap, err := s.repo.GetDraft(ctx, chatID)
	if err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to restore draft")
	}

	lf := &liveForm{state: form.RestoreState(snap, s.clock, s.backend, s.options(chatID)...), step: models.StepIdle}
	if snap != nil && snap.Step != "" {
		lf.step = snap.Step
	}
	s.live[chatID] = lf
	return lf.state, lf.step
}

// Start replaces the chat's form with a fresh one, optionally bound to an edit session.
func (s *FormService) Start(ctx context.Context, chatID int64, session *models.EditSession) *form.State {
	st := form.NewState(s.clock, s.backend, s.options(chatID, form.WithEditSession(session))...)

	s.mu.Lock()
	s.live[chatID] = &liveForm{state: st, step: models.StepIdle}
	s.mu.Unlock()

	s.persist(ctx, chatID)
	return st
}

// SetStep records which text field the chat is expected to type next.
func (s *FormService) SetStep(ctx context.Context, chatID int64, step string) {
	s.mu.Lock()
	_, _ = s.openLocked(ctx, chatID)
	s.live[chatID].step = step
	s.mu.Unlock()

	s.persist(ctx, chatID)
}

// Save persists the chat's current form after a mutation.
func (s *FormService) Save(ctx context.Context, chatID int64) {
	s.persist(ctx, chatID)
}

func (s *FormService) persist(ctx context.Context, chatID int64) {
	s.mu.Lock()
	lf, ok := s.live[chatID]
	s.mu.Unlock()
	if !ok {
		return
	}

	snap := lf.state.Snapshot()
	snap.Step = lf.step
	snap.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveDraft(ctx, &snap); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to save draft")
	}
}

// Load hydrates the chat's form from its edit session.
func (s *FormService) Load(ctx context.Context, chatID int64) error {
	st, _ := s.Open(ctx, chatID)
	err := st.Load(ctx)
	metrics.IncFormAction(actionLoad, outcome(err))
	if err == nil {
		s.persist(ctx, chatID)
	}
	return err
}

// Submit posts the chat's draft. On success the persisted copy is dropped.
func (s *FormService) Submit(ctx context.Context, chatID int64) (*models.SubmitResult, error) {
	st, _ := s.Open(ctx, chatID)
	start := time.Now()
	result, err := st.Submit(ctx)
	metrics.IncFormAction(actionSubmit, outcome(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("chat_id", chatID).Dur("duration", time.Since(start)).Msg("form submitted")
	s.mu.Lock()
	if lf, ok := s.live[chatID]; ok {
		lf.step = models.StepIdle
	}
	s.mu.Unlock()
	if err := s.repo.ClearDraft(ctx, chatID); err != nil {
		s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to clear draft")
	}
	return result, nil
}

// Discard forgets the chat's form entirely.
func (s *FormService) Discard(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	delete(s.live, chatID)
	s.mu.Unlock()
	return s.repo.ClearDraft(ctx, chatID)
}

// CheckRateLimit reports whether the chat may send another message.
func (s *FormService) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	return s.repo.CheckRateLimit(ctx, chatID, limit, window)
}

func outcome(err error) string {
	var be *backend.BackendError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case form.IsValidationError(err), errors.Is(err, form.ErrNoEditSession):
		return metrics.OutcomeValidation
	case errors.Is(err, form.ErrSubmitInFlight), errors.Is(err, form.ErrLoadInFlight):
		return metrics.OutcomeBusy
	case errors.As(err, &be) && be.Status == 0:
		return metrics.OutcomeTransportError
	default:
		return metrics.OutcomeHTTPError
	}
}
