package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"lacasita/internal/config"
	"lacasita/internal/domain"
	"lacasita/internal/metrics"
	"lacasita/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const updateTimeout = 30 * time.Second

// Bot presents the reservation form in Telegram chats.
type Bot struct {
	tgService domain.TelegramService
	config    *config.Config
	forms     *service.FormService
	journal   domain.Journal
	logger    *zerolog.Logger
	now       func() time.Time

	// submits in flight; Wait blocks on them
	inflight sync.WaitGroup
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	forms *service.FormService,
	journal domain.Journal,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService: tgService,
		config:    config,
		forms:     forms,
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

// Stop stops receiving updates and waits for pending submits.
func (b *Bot) Stop() {
	if b == nil || b.tgService == nil {
		return
	}
	b.tgService.StopReceivingUpdates()
	b.Wait()
}

// Wait blocks until every submit started by the bot has finished.
func (b *Bot) Wait() {
	b.inflight.Wait()
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpdate(time.Since(start))
	}()

	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(func() {
		var chatID int64
		switch {
		case update.Message != nil && update.Message.Chat != nil:
			chatID = update.Message.Chat.ID
		case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
			chatID = update.CallbackQuery.Message.Chat.ID
		}

		if chatID == 0 {
			return
		}

		if !b.allowed(updateCtx, chatID, update) {
			return
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, chatID, update.CallbackQuery)
			return
		}

		b.handleMessage(updateCtx, chatID, update.Message)
	})
}

func (b *Bot) allowed(ctx context.Context, chatID int64, update tgbotapi.Update) bool {
	limit := b.config.Bot.RateLimitMessages
	window := time.Duration(b.config.Bot.RateLimitWindow) * time.Second
	if limit <= 0 || window <= 0 {
		return true
	}

	ok, err := b.forms.CheckRateLimit(ctx, chatID, limit, window)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Rate limit check failed")
		return true
	}
	if !ok {
		zerolog.Ctx(ctx).Warn().Int64("chat_id", chatID).Msg("Rate limit exceeded")
		if update.Message != nil {
			b.sendMessage(chatID, msgRateLimited)
		}
		return false
	}
	return true
}
