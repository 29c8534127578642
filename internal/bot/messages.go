package bot

import (
	"fmt"
	"strings"

	"lacasita/internal/form"
	"lacasita/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	formTitle = "*La Casita reservation*"

	msgRateLimited   = "⚠️ You are sending messages too quickly. Please wait a moment."
	msgEnterName     = "Please type your name:"
	msgEnterEmail    = "Please type your email:"
	msgEnterPhone    = "Please type your phone number:"
	msgPickDate      = "Choose a date:"
	msgPickHour      = "Choose the hour:"
	msgPickMinute    = "Choose the minute:"
	msgPickMeridiem  = "AM or PM?"
	msgPickDiners    = "How many diners?"
	msgPickSeating   = "Inside or outside?"
	msgPickPickup    = "Do you need a pickup?"
	msgLoadUsage     = "Usage: /load <reservation id> <token>"
	msgLoading       = "Loading reservation..."
	msgNoHistory     = "No reservations yet."
	msgExportEmpty   = "Nothing to export for the last %d days."
	msgExportFailed  = "❌ Could not build the export. Please try again later."
	msgHistoryFailed = "❌ Could not read the reservation history."
	msgUnknown       = "Use /start to open the reservation form."
	msgHelp          = `Commands:
/start - open a new reservation form
/load <id> <token> - edit an existing reservation
/history - your recent reservations
/export - Excel file of the last 30 days
/cancel - discard the current form`
	msgDiscarded = "Form discarded. Use /start to begin again."

	emptyValue = "-"
)

// renderForm describes the draft as a Markdown message.
func renderForm(d models.Draft, session *models.EditSession) string {
	var sb strings.Builder
	sb.WriteString(formTitle)
	if session.Complete() {
		sb.WriteString(fmt.Sprintf(" (editing #%s)", escape(session.ReservationID)))
	}
	sb.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Name", d.Name},
		{"Email", d.Email},
		{"Phone", d.Phone},
		{"Date", d.Date},
		{"Time", d.Time.String()},
		{"Diners", d.Diners},
		{"Seating", d.Seating},
		{"Pickup", d.Pickup},
	}
	for _, row := range rows {
		v := row.value
		if v == "" {
			v = emptyValue
		}
		sb.WriteString(fmt.Sprintf("*%s:* %s\n", row.label, escape(v)))
	}
	return sb.String()
}

// renderNotification formats a load or submit outcome.
func renderNotification(n form.Notification) string {
	return fmt.Sprintf("*%s*\n%s", n.Title, escape(n.Message))
}

func renderHistory(entries []*models.JournalEntry) string {
	if len(entries) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("*Recent reservations*\n\n")
	for _, e := range entries {
		line := fmt.Sprintf("%s %s, %d diners, %s", e.Date, e.Time, e.Diners, e.Seating)
		if e.BackendID != "" {
			line += " #" + e.BackendID
		}
		sb.WriteString(fmt.Sprintf("• %s (%s)\n", escape(line), e.Kind))
	}
	return sb.String()
}

func escape(s string) string {
	return tgbotapi.EscapeText(models.ParseModeMarkdown, s)
}
