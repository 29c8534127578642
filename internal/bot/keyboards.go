package bot

import (
	"fmt"
	"strconv"
	"time"

	"lacasita/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data.
const (
	cbMain        = "form:main"
	cbReset       = "form:reset"
	cbSubmit      = "form:submit"
	cbField       = "field:"
	cbDateOpen    = "date:open"
	cbDate        = "date:"
	cbWeekPrev    = "week:prev"
	cbWeekNext    = "week:next"
	cbTimeOpen    = "time:open"
	cbHour        = "hour:"
	cbMinute      = "minute:"
	cbMeridiem    = "ampm:"
	cbDinersOpen  = "diners:open"
	cbDiners      = "diners:"
	cbSeatingOpen = "seating:open"
	cbSeating     = "seating:"
	cbPickupOpen  = "pickup:open"
	cbPickup      = "pickup:"
)

const (
	datesPerRow   = 4
	hoursPerRow   = 4
	minutesPerRow = 6
	dinersPerRow  = 5
	selectedMark  = "✅ "
)

func mark(label string, selected bool) string {
	if selected {
		return selectedMark + label
	}
	return label
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", cbMain))
}

// formKeyboard is the top-level menu of the form.
func formKeyboard(submitLabel string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Name", cbField+models.StepEnterName),
			tgbotapi.NewInlineKeyboardButtonData("✉️ Email", cbField+models.StepEnterEmail),
			tgbotapi.NewInlineKeyboardButtonData("📞 Phone", cbField+models.StepEnterPhone),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Date", cbDateOpen),
			tgbotapi.NewInlineKeyboardButtonData("🕖 Time", cbTimeOpen),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Diners", cbDinersOpen),
			tgbotapi.NewInlineKeyboardButtonData("🪑 Seating", cbSeatingOpen),
			tgbotapi.NewInlineKeyboardButtonData("🚗 Pickup", cbPickupOpen),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(submitLabel, cbSubmit),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Reset", cbReset),
		),
	)
}

// weekKeyboard shows the seven dates of the window with paging controls.
func weekKeyboard(dates []string, selected string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, date := range dates {
		label := date
		if t, err := time.Parse(models.DateLayout, date); err == nil {
			label = t.Format("Mon 02")
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(label, date == selected), cbDate+date))
		if len(row) == datesPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Prev week", cbWeekPrev),
			tgbotapi.NewInlineKeyboardButtonData("Next week »", cbWeekNext),
		),
		backRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func gridKeyboard(values []int, perRow int, prefix string, label func(int) string, selected int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, v := range values {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(label(v), v == selected), prefix+strconv.Itoa(v)))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func hourKeyboard(selected int) tgbotapi.InlineKeyboardMarkup {
	return gridKeyboard(models.HourOptions(), hoursPerRow, cbHour, strconv.Itoa, selected)
}

func minuteKeyboard(selected int) tgbotapi.InlineKeyboardMarkup {
	return gridKeyboard(models.MinuteOptions(), minutesPerRow, cbMinute, func(m int) string {
		return fmt.Sprintf(":%02d", m)
	}, selected)
}

func dinersKeyboard(selected string) tgbotapi.InlineKeyboardMarkup {
	n, _ := strconv.Atoi(selected)
	values := make([]int, 0, models.MaxDiners)
	for i := models.MinDiners; i <= models.MaxDiners; i++ {
		values = append(values, i)
	}
	return gridKeyboard(values, dinersPerRow, cbDiners, strconv.Itoa, n)
}

func meridiemKeyboard(selected models.Meridiem) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark(string(models.AM), selected == models.AM), cbMeridiem+string(models.AM)),
			tgbotapi.NewInlineKeyboardButtonData(mark(string(models.PM), selected == models.PM), cbMeridiem+string(models.PM)),
		),
		backRow(),
	)
}

func choiceKeyboard(prefix, selected string, options ...string) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(options))
	for _, opt := range options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(mark(opt, opt == selected), prefix+opt))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row, backRow())
}

func seatingKeyboard(selected string) tgbotapi.InlineKeyboardMarkup {
	return choiceKeyboard(cbSeating, selected, models.SeatingInside, models.SeatingOutside)
}

func pickupKeyboard(selected string) tgbotapi.InlineKeyboardMarkup {
	return choiceKeyboard(cbPickup, selected, models.PickupYes, models.PickupNo)
}
