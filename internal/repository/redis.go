package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lacasita/internal/config"
	"lacasita/internal/models"

	"github.com/redis/go-redis/v9"
)

var errNilRedis = errors.New("redis client is nil")

type RedisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{
		client: client,
		ttl:    ttl,
	}
}

func draftKey(chatID int64) string {
	return fmt.Sprintf("form_draft:%d", chatID)
}

func (r *RedisDraftRepository) GetDraft(ctx context.Context, chatID int64) (*models.FormSnapshot, error) {
	if r.client == nil {
		return nil, errNilRedis
	}
	val, err := r.client.Get(ctx, draftKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from redis: %w", err)
	}

	var snap models.FormSnapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &snap, nil
}

func (r *RedisDraftRepository) SaveDraft(ctx context.Context, snap *models.FormSnapshot) error {
	if r.client == nil {
		return errNilRedis
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := r.client.Set(ctx, draftKey(snap.ChatID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft in redis: %w", err)
	}
	return nil
}

func (r *RedisDraftRepository) ClearDraft(ctx context.Context, chatID int64) error {
	if r.client == nil {
		return errNilRedis
	}
	if err := r.client.Del(ctx, draftKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from redis: %w", err)
	}
	return nil
}

func (r *RedisDraftRepository) CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, errNilRedis
	}
	key := fmt.Sprintf("rate_limit:%d", chatID)
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		r.client.Expire(ctx, key, window)
	}
	return count <= int64(limit), nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
