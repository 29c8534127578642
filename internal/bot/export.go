package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lacasita/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reservations"

var errNothingToExport = errors.New("nothing to export")

var exportHeaders = []string{
	"Recorded", "Kind", "Reservation", "Name", "Email", "Phone", "Date", "Time", "24h", "Diners", "Seating", "Pickup",
}

func (b *Bot) sendExport(ctx context.Context, chatID int64) {
	path, err := b.exportToExcel(ctx, chatID)
	if errors.Is(err, errNothingToExport) {
		b.sendMessage(chatID, fmt.Sprintf(msgExportEmpty, models.DefaultExportDays))
		return
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Export failed")
		b.sendMessage(chatID, msgExportFailed)
		return
	}
	defer os.Remove(path)

	if _, err := b.tgService.SendDocument(chatID, path); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send export")
		b.sendMessage(chatID, msgExportFailed)
	}
}

// exportToExcel writes the chat's journal for the last DefaultExportDays days to an xlsx file.
func (b *Bot) exportToExcel(ctx context.Context, chatID int64) (string, error) {
	if b.journal == nil {
		return "", errNothingToExport
	}

	endDate := b.now()
	startDate := endDate.AddDate(0, 0, -models.DefaultExportDays)

	all, err := b.journal.ListBetween(ctx, startDate, endDate)
	if err != nil {
		return "", fmt.Errorf("error listing journal: %w", err)
	}
	entries := make([]*models.JournalEntry, 0, len(all))
	for _, e := range all {
		if e.ChatID == chatID {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return "", errNothingToExport
	}

	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	writeExportHeaders(f)
	for i, e := range entries {
		writeExportRow(f, i+2, e)
	}

	_ = f.SetColWidth(exportSheet, "A", "A", 20)
	_ = f.SetColWidth(exportSheet, "B", "L", 16)

	fileName := fmt.Sprintf("reservations_%d_%s_to_%s.xlsx",
		chatID,
		startDate.Format(models.DateLayout),
		endDate.Format(models.DateLayout))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("file_path", filePath).Int("rows", len(entries)).Msg("Excel file created")
	return filePath, nil
}

func writeExportHeaders(f *excelize.File) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
		_ = f.SetCellStyle(exportSheet, cell, cell, style)
	}
}

func writeExportRow(f *excelize.File, row int, e *models.JournalEntry) {
	clock := ""
	if t, err := models.ParseTime(e.Time); err == nil {
		clock = t.Clock24()
	}
	values := []interface{}{
		e.CreatedAt.Local().Format(time.DateTime),
		e.Kind,
		e.BackendID,
		e.Name,
		e.Email,
		e.Phone,
		e.Date,
		e.Time,
		clock,
		e.Diners,
		e.Seating,
		e.Pickup,
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	_ = f.SetSheetRow(exportSheet, cell, &values)
}
