package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"lacasita/internal/domain"
	"lacasita/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverDraftRepository uses primary until it fails, then fallback.
// The primary is retried once per recoveryInterval.
type FailoverDraftRepository struct {
	primary  domain.DraftRepository
	fallback domain.DraftRepository
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverDraftRepository(primary, fallback domain.DraftRepository, logger *zerolog.Logger) *FailoverDraftRepository {
	return &FailoverDraftRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// usePrimary reports whether the next call should try the primary.
func (r *FailoverDraftRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Sub(r.lastCheck) > recoveryInterval
}

func (r *FailoverDraftRepository) markResult(err error) {
	if err == nil {
		if r.isDown.Swap(false) {
			r.logger.Info().Msg("Primary draft repository recovered")
		}
		return
	}
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary draft repository failed, falling back to memory")
	}
	r.mu.Lock()
	r.lastCheck = r.now()
	r.mu.Unlock()
}

func (r *FailoverDraftRepository) GetDraft(ctx context.Context, chatID int64) (*models.FormSnapshot, error) {
	if r.usePrimary() {
		snap, err := r.primary.GetDraft(ctx, chatID)
		r.markResult(err)
		if err == nil {
			return snap, nil
		}
	}
	return r.fallback.GetDraft(ctx, chatID)
}

func (r *FailoverDraftRepository) SaveDraft(ctx context.Context, snap *models.FormSnapshot) error {
	if r.usePrimary() {
		err := r.primary.SaveDraft(ctx, snap)
		r.markResult(err)
		if err == nil {
			return nil
		}
	}
	return r.fallback.SaveDraft(ctx, snap)
}

func (r *FailoverDraftRepository) ClearDraft(ctx context.Context, chatID int64) error {
	// fallback may hold a copy written while primary was down
	_ = r.fallback.ClearDraft(ctx, chatID)
	if r.usePrimary() {
		err := r.primary.ClearDraft(ctx, chatID)
		r.markResult(err)
		return nil
	}
	return nil
}

func (r *FailoverDraftRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, chatID, limit, window)
		r.markResult(err)
		if err == nil {
			return allowed, nil
		}
	}
	return r.fallback.CheckRateLimit(ctx, chatID, limit, window)
}
