package bot

import (
	"strings"

	"lacasita/internal/form"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	if _, err := b.tgService.SendMarkdown(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}

// sendForm posts the form as a new message with the main menu.
func (b *Bot) sendForm(chatID int64, st *form.State) {
	text := formText(st, "")
	if _, err := b.tgService.SendWithInlineKeyboard(chatID, text, formKeyboard(st.SubmitLabel())); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send form")
	}
}

// editForm redraws the form message in place with the given keyboard.
func (b *Bot) editForm(chatID int64, messageID int, st *form.State, prompt string, keyboard tgbotapi.InlineKeyboardMarkup) {
	text := formText(st, prompt)
	if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
		// "message is not modified" is expected when the same button is tapped twice
		if strings.Contains(err.Error(), "message is not modified") {
			return
		}
		b.logger.Error().Err(err).Int64("chat_id", chatID).Int("message_id", messageID).Msg("Failed to edit form")
	}
}

func formText(st *form.State, prompt string) string {
	text := renderForm(st.Draft(), st.EditSession())
	if prompt != "" {
		text += "\n" + prompt
	}
	return text
}
