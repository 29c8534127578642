package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"lacasita/internal/form"
	"lacasita/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	answerFirstWeek   = "This is the earliest week"
	answerUnavailable = "That option is not available"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, chatID int64, callback *tgbotapi.CallbackQuery) {
	data := callback.Data
	messageID := callback.Message.MessageID
	answer := ""
	defer func() {
		// Отвечаем на callback, чтобы убрать "часики"
		if err := b.tgService.AnswerCallback(callback.ID, answer); err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("Failed to answer callback")
		}
	}()

	st, _ := b.forms.Open(ctx, chatID)
	d := st.Draft()

	var err error
	switch {
	case data == cbMain:
		b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		return

	case data == cbReset:
		st.Reset()
		b.forms.SetStep(ctx, chatID, models.StepIdle)
		b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		return

	case data == cbSubmit:
		answer = b.handleSubmit(ctx, chatID, messageID, st)
		return

	case strings.HasPrefix(data, cbField):
		step := strings.TrimPrefix(data, cbField)
		prompt := stepPrompt(step)
		if prompt == "" {
			answer = answerUnavailable
			return
		}
		b.forms.SetStep(ctx, chatID, step)
		b.sendMessage(chatID, prompt)
		return

	case data == cbDateOpen:
		b.editForm(chatID, messageID, st, msgPickDate, weekKeyboard(st.Week(), d.Date))
		return

	case data == cbWeekPrev, data == cbWeekNext:
		dir := form.Next
		if data == cbWeekPrev {
			dir = form.Prev
		}
		if !st.NavigateWeek(dir) {
			answer = answerFirstWeek
			return
		}
		b.forms.Save(ctx, chatID)
		b.editForm(chatID, messageID, st, msgPickDate, weekKeyboard(st.Week(), d.Date))
		return

	case strings.HasPrefix(data, cbDate):
		if err = st.SelectDate(strings.TrimPrefix(data, cbDate)); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		}

	case data == cbTimeOpen:
		b.editForm(chatID, messageID, st, msgPickHour, hourKeyboard(d.Time.Hour))
		return

	case strings.HasPrefix(data, cbHour):
		if err = st.SetHour(atoi(strings.TrimPrefix(data, cbHour))); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, msgPickMinute, minuteKeyboard(st.Draft().Time.Minute))
		}

	case strings.HasPrefix(data, cbMinute):
		if err = st.SetMinute(atoi(strings.TrimPrefix(data, cbMinute))); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, msgPickMeridiem, meridiemKeyboard(st.Draft().Time.AMPM))
		}

	case strings.HasPrefix(data, cbMeridiem):
		if err = st.SetMeridiem(models.Meridiem(strings.TrimPrefix(data, cbMeridiem))); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		}

	case data == cbDinersOpen:
		b.editForm(chatID, messageID, st, msgPickDiners, dinersKeyboard(d.Diners))
		return

	case strings.HasPrefix(data, cbDiners):
		if err = st.SetDiners(strings.TrimPrefix(data, cbDiners)); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		}

	case data == cbSeatingOpen:
		b.editForm(chatID, messageID, st, msgPickSeating, seatingKeyboard(d.Seating))
		return

	case strings.HasPrefix(data, cbSeating):
		if err = st.SetSeating(strings.TrimPrefix(data, cbSeating)); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		}

	case data == cbPickupOpen:
		b.editForm(chatID, messageID, st, msgPickPickup, pickupKeyboard(d.Pickup))
		return

	case strings.HasPrefix(data, cbPickup):
		if err = st.SetPickup(strings.TrimPrefix(data, cbPickup)); err == nil {
			b.forms.Save(ctx, chatID)
			b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
		}

	default:
		zerolog.Ctx(ctx).Debug().Str("data", data).Msg("Unknown callback")
		return
	}

	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("data", data).Msg("Rejected form input")
		answer = answerUnavailable
	}
}

// handleSubmit starts a background submit and returns the callback answer.
// Taps while a submit is running are ignored.
func (b *Bot) handleSubmit(ctx context.Context, chatID int64, messageID int, st *form.State) string {
	if st.Submitting() {
		return form.LabelSubmitting
	}

	b.editForm(chatID, messageID, st, "", formKeyboard(form.LabelSubmitting))

	logger := zerolog.Ctx(ctx)
	b.goSafe(func() {
		// backend.timeout is the only deadline a submit gets
		submitCtx := logger.WithContext(context.Background())

		_, err := b.forms.Submit(submitCtx, chatID)
		if errors.Is(err, form.ErrSubmitInFlight) {
			return
		}
		if err != nil {
			logger.Warn().Err(err).Int64("chat_id", chatID).Msg("Reservation submit failed")
		}

		b.sendMarkdown(chatID, renderNotification(form.SubmitNotification(err)))
		b.editForm(chatID, messageID, st, "", formKeyboard(st.SubmitLabel()))
	})
	return ""
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
