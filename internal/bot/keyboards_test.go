package bot

import (
	"context"
	"testing"
	"time"

	"lacasita/internal/config"
	"lacasita/internal/form"
	"lacasita/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func countButtons(rows [][]tgbotapi.InlineKeyboardButton) int {
	n := 0
	for _, row := range rows {
		n += len(row)
	}
	return n
}

func TestWeekKeyboard(t *testing.T) {
	dates := []string{"2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07", "2024-06-08"}
	kb := weekKeyboard(dates, "2024-06-05")

	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, 7, countButtons(kb.InlineKeyboard[:2]))
	assert.Equal(t, "Sun 02", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, selectedMark+"Wed 05", kb.InlineKeyboard[0][3].Text)
	assert.Equal(t, cbWeekPrev, *kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, cbMain, *kb.InlineKeyboard[3][0].CallbackData)
}

func TestGridKeyboards(t *testing.T) {
	minutes := minuteKeyboard(5)
	assert.Equal(t, 60, countButtons(minutes.InlineKeyboard[:len(minutes.InlineKeyboard)-1]))
	assert.Equal(t, selectedMark+":05", minutes.InlineKeyboard[0][5].Text)

	hours := hourKeyboard(12)
	assert.Equal(t, 12, countButtons(hours.InlineKeyboard[:len(hours.InlineKeyboard)-1]))
	assert.Equal(t, cbHour+"1", *hours.InlineKeyboard[0][0].CallbackData)

	diners := dinersKeyboard("10")
	assert.Equal(t, models.MaxDiners, countButtons(diners.InlineKeyboard[:len(diners.InlineKeyboard)-1]))
	assert.Equal(t, selectedMark+"10", diners.InlineKeyboard[1][4].Text)

	ampm := meridiemKeyboard(models.PM)
	assert.Equal(t, "AM", ampm.InlineKeyboard[0][0].Text)
	assert.Equal(t, selectedMark+"PM", ampm.InlineKeyboard[0][1].Text)

	seating := seatingKeyboard(models.SeatingInside)
	assert.Equal(t, cbSeating+models.SeatingOutside, *seating.InlineKeyboard[0][1].CallbackData)
}

func TestFormKeyboardLabel(t *testing.T) {
	kb := formKeyboard(form.LabelSubmitting)
	assert.Equal(t, form.LabelSubmitting, kb.InlineKeyboard[3][0].Text)
	assert.Equal(t, cbSubmit, *kb.InlineKeyboard[3][0].CallbackData)
}

func TestRenderForm(t *testing.T) {
	d := models.DefaultDraft()
	d.Name = "Ana_B"
	text := renderForm(d, &models.EditSession{ReservationID: "9", AccessToken: "t"})

	assert.Contains(t, text, "(editing #9)")
	assert.Contains(t, text, `*Name:* Ana\_B`)
	assert.Contains(t, text, "*Email:* "+emptyValue)
	assert.Contains(t, text, "*Time:* 7:00 PM")

	assert.NotContains(t, renderForm(d, nil), "editing")
	assert.Equal(t, "*Error*\nboom", renderNotification(form.Notification{Title: form.TitleError, Message: "boom"}))
}

func TestExportToExcel(t *testing.T) {
	dir := t.TempDir()
	journal := &mockJournal{entries: []*models.JournalEntry{
		{ChatID: testChatID, Kind: models.JournalSubmitted, BackendID: "r1", Name: "Jane", Email: "j@x.com",
			Date: "2024-06-09", Time: "7:05 PM", Diners: 2, Seating: "outside", Pickup: "no", CreatedAt: time.Now()},
	}}
	env := newTestEnv(t, &config.Config{Exports: config.ExportConfig{Path: dir}}, journal)

	path, err := env.bot.exportToExcel(context.Background(), testChatID)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Recorded", header)

	name, _ := f.GetCellValue(exportSheet, "D2")
	assert.Equal(t, "Jane", name)
	clock, _ := f.GetCellValue(exportSheet, "I2")
	assert.Equal(t, "19:05", clock)

	_, err = env.bot.exportToExcel(context.Background(), 42)
	assert.ErrorIs(t, err, errNothingToExport)
}
