package bot

import (
	"context"
	"strings"

	"lacasita/internal/form"
	"lacasita/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const editPayloadPrefix = "edit_"

func (b *Bot) handleMessage(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	if msg == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg)
		return
	}

	st, step := b.forms.Open(ctx, chatID)
	text := strings.TrimSpace(msg.Text)

	switch step {
	case models.StepEnterName:
		st.SetName(text)
	case models.StepEnterEmail:
		st.SetEmail(text)
	case models.StepEnterPhone:
		st.SetPhone(text)
	default:
		b.sendMessage(chatID, msgUnknown)
		return
	}

	next := nextStep(step, st.Draft())
	b.forms.SetStep(ctx, chatID, next)
	if prompt := stepPrompt(next); prompt != "" {
		b.sendMessage(chatID, prompt)
		return
	}
	b.sendForm(chatID, st)
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		if payload, ok := strings.CutPrefix(args, editPayloadPrefix); ok {
			id, token, _ := strings.Cut(payload, "_")
			b.startEdit(ctx, chatID, &models.EditSession{ReservationID: id, AccessToken: token})
			return
		}
		st := b.forms.Start(ctx, chatID, nil)
		b.sendForm(chatID, st)

	case "load":
		fields := strings.Fields(args)
		if len(fields) != 2 {
			b.sendMessage(chatID, msgLoadUsage)
			return
		}
		b.startEdit(ctx, chatID, &models.EditSession{ReservationID: fields[0], AccessToken: fields[1]})

	case "history":
		b.sendHistory(ctx, chatID)

	case "export":
		b.sendExport(ctx, chatID)

	case "cancel":
		if err := b.forms.Discard(ctx, chatID); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to discard form")
		}
		b.sendMessage(chatID, msgDiscarded)

	case "help":
		b.sendMessage(chatID, msgHelp)

	default:
		b.sendMessage(chatID, msgUnknown)
	}
}

// startEdit opens a form bound to an existing reservation and hydrates it once.
// Without both id and token the fresh form is shown and nothing is fetched.
func (b *Bot) startEdit(ctx context.Context, chatID int64, session *models.EditSession) {
	st := b.forms.Start(ctx, chatID, session)
	if !session.Complete() {
		b.sendForm(chatID, st)
		return
	}

	b.sendMessage(chatID, msgLoading)
	if err := b.forms.Load(ctx, chatID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("chat_id", chatID).Msg("Reservation load failed")
		b.sendMarkdown(chatID, renderNotification(form.LoadNotification(err)))
	}
	b.sendForm(chatID, st)
}

func (b *Bot) sendHistory(ctx context.Context, chatID int64) {
	if b.journal == nil {
		b.sendMessage(chatID, msgNoHistory)
		return
	}

	entries, err := b.journal.ListByChat(ctx, chatID, models.DefaultHistoryLimit)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to list journal")
		b.sendMessage(chatID, msgHistoryFailed)
		return
	}
	b.sendMarkdown(chatID, renderHistory(entries))
}

// nextStep chains the text prompts while contact fields are still empty.
func nextStep(step string, d models.Draft) string {
	switch step {
	case models.StepEnterName:
		if d.Email == "" {
			return models.StepEnterEmail
		}
	case models.StepEnterEmail:
		if d.Phone == "" {
			return models.StepEnterPhone
		}
	}
	return models.StepIdle
}

func stepPrompt(step string) string {
	switch step {
	case models.StepEnterName:
		return msgEnterName
	case models.StepEnterEmail:
		return msgEnterEmail
	case models.StepEnterPhone:
		return msgEnterPhone
	default:
		return ""
	}
}
