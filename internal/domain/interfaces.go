package domain

import (
	"context"
	"time"

	"lacasita/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ReservationBackend is the remote booking API.
type ReservationBackend interface {
	GetReservation(ctx context.Context, id, token string) (*models.Record, error)
	CreateReservation(ctx context.Context, payload models.Payload) (*models.SubmitResult, error)
}

type DraftRepository interface {
	GetDraft(ctx context.Context, chatID int64) (*models.FormSnapshot, error)
	SaveDraft(ctx context.Context, snap *models.FormSnapshot) error
	ClearDraft(ctx context.Context, chatID int64) error
	CheckRateLimit(ctx context.Context, chatID int64, limit int, window time.Duration) (bool, error)
}

type Journal interface {
	Record(ctx context.Context, entry *models.JournalEntry) error
	ListByChat(ctx context.Context, chatID int64, limit int) ([]*models.JournalEntry, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.JournalEntry, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}

type TelegramService interface {
	SendMessage(chatID int64, text string) (tgbotapi.Message, error)
	SendMarkdown(chatID int64, text string) (tgbotapi.Message, error)
	SendWithInlineKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error)
	SendDocument(chatID int64, path string) (tgbotapi.Message, error)
	AnswerCallback(callbackID string, text string) error
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetSelf() tgbotapi.User
	StopReceivingUpdates()
}
