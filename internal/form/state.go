package form

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"lacasita/internal/domain"
	"lacasita/internal/events"
	"lacasita/internal/models"

	"github.com/rs/zerolog"
)

// State owns one reservation draft and the week window it is picked from.
// At most one load and one submit run at a time.
type State struct {
	mu      sync.Mutex
	draft   models.Draft
	week    *WeekNavigator
	session *models.EditSession

	backend   domain.ReservationBackend
	publisher domain.EventPublisher
	logger    *zerolog.Logger
	chatID    int64

	submitting atomic.Bool
	loading    atomic.Bool
}

type Option func(*State)

// WithEditSession injects the reservation to hydrate from.
func WithEditSession(session *models.EditSession) Option {
	return func(s *State) {
		if session != nil {
			cp := *session
			s.session = &cp
		}
	}
}

func WithPublisher(p domain.EventPublisher) Option {
	return func(s *State) { s.publisher = p }
}

func WithLogger(l *zerolog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChatID tags published events with the owning chat.
func WithChatID(id int64) Option {
	return func(s *State) { s.chatID = id }
}

func NewState(clock Clock, backend domain.ReservationBackend, opts ...Option) *State {
	nop := zerolog.Nop()
	s := &State{
		draft:   models.DefaultDraft(),
		week:    NewWeekNavigator(clock),
		backend: backend,
		logger:  &nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RestoreState rebuilds a form from a persisted snapshot.
func RestoreState(snap *models.FormSnapshot, clock Clock, backend domain.ReservationBackend, opts ...Option) *State {
	s := NewState(clock, backend, opts...)
	if snap == nil {
		return s
	}
	s.draft = snap.Draft
	s.week.Restore(snap.WeekStart)
	if snap.Session != nil {
		cp := *snap.Session
		s.session = &cp
	}
	return s
}

func (s *State) Draft() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Week returns the seven selectable dates.
func (s *State) Week() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week.Dates()
}

func (s *State) WeekStart() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week.Start()
}

func (s *State) EditSession() *models.EditSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// SetEditSession replaces the session, e.g. from manual test input.
func (s *State) SetEditSession(session *models.EditSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		return
	}
	cp := *session
	s.session = &cp
}

func (s *State) Snapshot() models.FormSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := models.FormSnapshot{
		ChatID:    s.chatID,
		Draft:     s.draft,
		WeekStart: s.week.Start(),
	}
	if s.session != nil {
		cp := *s.session
		snap.Session = &cp
	}
	return snap
}

func (s *State) update(fn func(d *models.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.draft)
}

func (s *State) SetName(v string) {
	_ = s.update(func(d *models.Draft) error { d.Name = v; return nil })
}

func (s *State) SetEmail(v string) {
	_ = s.update(func(d *models.Draft) error { d.Email = v; return nil })
}

func (s *State) SetPhone(v string) {
	_ = s.update(func(d *models.Draft) error { d.Phone = v; return nil })
}

// SelectDate picks one of the dates of the displayed week.
func (s *State) SelectDate(date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.week.Contains(date) {
		return fmt.Errorf("%w: %s", ErrDateOutsideWindow, date)
	}
	s.draft.Date = date
	return nil
}

// NavigateWeek pages the window. It reports whether the window moved.
func (s *State) NavigateWeek(dir Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week.Navigate(dir)
}

// ShowWeekOf moves the window to the week containing date, never before the current week.
func (s *State) ShowWeekOf(date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week.ShowWeekOf(date)
}

func (s *State) SetHour(h int) error {
	return s.update(func(d *models.Draft) error { return d.Time.SetHour(h) })
}

func (s *State) SetMinute(m int) error {
	return s.update(func(d *models.Draft) error { return d.Time.SetMinute(m) })
}

func (s *State) SetMeridiem(m models.Meridiem) error {
	return s.update(func(d *models.Draft) error { return d.Time.SetMeridiem(m) })
}

func (s *State) ToggleMeridiem() {
	_ = s.update(func(d *models.Draft) error { d.Time.ToggleMeridiem(); return nil })
}

func (s *State) SetDiners(v string) error {
	return s.update(func(d *models.Draft) error {
		n, err := strconv.Atoi(v)
		if err != nil || strconv.Itoa(n) != v || n < models.MinDiners || n > models.MaxDiners {
			return fmt.Errorf("%w: diners %q", ErrInvalidOption, v)
		}
		d.Diners = v
		return nil
	})
}

func (s *State) SetSeating(v string) error {
	return s.update(func(d *models.Draft) error {
		if !models.ValidSeating(v) {
			return fmt.Errorf("%w: seating %q", ErrInvalidOption, v)
		}
		d.Seating = v
		return nil
	})
}

func (s *State) SetPickup(v string) error {
	return s.update(func(d *models.Draft) error {
		if !models.ValidPickup(v) {
			return fmt.Errorf("%w: pickup %q", ErrInvalidOption, v)
		}
		d.Pickup = v
		return nil
	})
}

// Reset restores the default draft and drops the edit session.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = models.DefaultDraft()
	s.session = nil
}

func (s *State) Submitting() bool {
	return s.submitting.Load()
}

// SubmitLabel is the text of the submit action.
func (s *State) SubmitLabel() string {
	if s.Submitting() {
		return LabelSubmitting
	}
	return LabelSubmit
}

// Load hydrates the draft from the edit session. It runs once per call and never retries.
func (s *State) Load(ctx context.Context) error {
	session := s.EditSession()
	if !session.Complete() {
		return ErrNoEditSession
	}
	if !s.loading.CompareAndSwap(false, true) {
		return ErrLoadInFlight
	}
	defer s.loading.Store(false)

	record, err := s.backend.GetReservation(ctx, session.ReservationID, session.AccessToken)
	if err == nil {
		var draft models.Draft
		if draft, err = Hydrate(*record); err == nil {
			s.mu.Lock()
			s.draft = draft
			s.week.ShowWeekOf(draft.Date)
			s.mu.Unlock()

			s.logger.Info().Str("reservation_id", session.ReservationID).Msg("reservation loaded")
			s.publish(events.EventReservationLoaded, draft, session.ReservationID, nil)
			return nil
		}
	}

	s.logger.Warn().Err(err).Str("reservation_id", session.ReservationID).Msg("load reservation failed")
	s.publish(events.EventReservationFailed, s.Draft(), session.ReservationID, err)
	return err
}

// Submit validates the draft and posts it. The draft is reset only on success.
func (s *State) Submit(ctx context.Context) (*models.SubmitResult, error) {
	if !s.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.submitting.Store(false)

	draft := s.Draft()
	payload, err := BuildPayload(draft)
	if err != nil {
		return nil, err
	}

	result, err := s.backend.CreateReservation(ctx, payload)
	if err != nil {
		s.logger.Warn().Err(err).Str("date", payload.Date).Msg("submit reservation failed")
		s.publish(events.EventReservationFailed, draft, "", err)
		return nil, err
	}
	if result == nil {
		result = &models.SubmitResult{}
	}

	s.Reset()
	s.logger.Info().Str("date", payload.Date).Str("time", payload.Time).Int("diners", payload.Diners).Msg("reservation submitted")
	s.publish(events.EventReservationSubmitted, draft, result.ReservationID(), nil)
	return result, nil
}

func (s *State) publish(eventType string, d models.Draft, reservationID string, cause error) {
	if s.publisher == nil {
		return
	}
	payload := events.ReservationEventPayload{
		ChatID:        s.chatID,
		ReservationID: reservationID,
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		Date:          d.Date,
		Time:          d.Time.String(),
		Diners:        d.Diners,
		Seating:       d.Seating,
		Pickup:        d.Pickup,
	}
	if cause != nil {
		payload.Error = cause.Error()
	}
	if err := s.publisher.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("publish event")
	}
}
