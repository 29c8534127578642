package repository

import (
	"context"
	"sync"
	"time"

	"lacasita/internal/models"
)

// MemoryDraftRepository keeps drafts in process. Entries older than ttl are dropped on read.
type MemoryDraftRepository struct {
	mu         sync.Mutex
	drafts     map[int64]memoryEntry
	rateLimits map[int64]*rateLimitEntry
	ttl        time.Duration
	now        func() time.Time
}

type memoryEntry struct {
	snap      models.FormSnapshot
	expiresAt time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryDraftRepository(ttl time.Duration) *MemoryDraftRepository {
	return &MemoryDraftRepository{
		drafts:     make(map[int64]memoryEntry),
		rateLimits: make(map[int64]*rateLimitEntry),
		ttl:        ttl,
		now:        time.Now,
	}
}

func (r *MemoryDraftRepository) GetDraft(ctx context.Context, chatID int64) (*models.FormSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.drafts[chatID]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && r.now().After(entry.expiresAt) {
		delete(r.drafts, chatID)
		return nil, nil
	}
	snap := entry.snap
	return &snap, nil
}

func (r *MemoryDraftRepository) SaveDraft(ctx context.Context, snap *models.FormSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := memoryEntry{snap: *snap}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.drafts[snap.ChatID] = entry
	return nil
}

func (r *MemoryDraftRepository) ClearDraft(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, chatID)
	return nil
}

func (r *MemoryDraftRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, ok := r.rateLimits[chatID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 0, expiresAt: now.Add(window)}
		r.rateLimits[chatID] = entry
	}
	entry.count++
	return entry.count <= limit, nil
}
