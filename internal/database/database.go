package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lacasita/internal/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// DB is the local journal of reservations submitted or loaded through the hosts.
type DB struct {
	db     *sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	// Создаем директорию для БД, если её нет
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("journal database initialized")
	return &DB{db: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            chat_id INTEGER NOT NULL,
            kind TEXT NOT NULL,
            backend_id TEXT,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            phone TEXT,
            date TEXT NOT NULL,
            time TEXT NOT NULL,
            diners INTEGER NOT NULL,
            seating TEXT NOT NULL,
            pickup TEXT NOT NULL,
            created_at DATETIME NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_chat_id ON reservations(chat_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_created_at ON reservations(created_at)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// Record inserts a journal entry and fills its ID.
func (db *DB) Record(ctx context.Context, entry *models.JournalEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	res, err := db.db.ExecContext(ctx, `
        INSERT INTO reservations (chat_id, kind, backend_id, name, email, phone, date, time, diners, seating, pickup, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ChatID, entry.Kind, entry.BackendID, entry.Name, entry.Email, entry.Phone,
		entry.Date, entry.Time, entry.Diners, entry.Seating, entry.Pickup, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("journal entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByChat returns the newest entries of a chat first.
func (db *DB) ListByChat(ctx context.Context, chatID int64, limit int) ([]*models.JournalEntry, error) {
	if limit <= 0 {
		limit = models.DefaultHistoryLimit
	}
	rows, err := db.db.QueryContext(ctx, selectEntries+`
        WHERE chat_id = ?
        ORDER BY created_at DESC, id DESC
        LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal by chat: %w", err)
	}
	return scanEntries(rows)
}

// ListBetween returns entries created in [from, to), oldest first.
func (db *DB) ListBetween(ctx context.Context, from, to time.Time) ([]*models.JournalEntry, error) {
	rows, err := db.db.QueryContext(ctx, selectEntries+`
        WHERE created_at >= ? AND created_at < ?
        ORDER BY created_at ASC, id ASC`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query journal by period: %w", err)
	}
	return scanEntries(rows)
}

const selectEntries = `
        SELECT id, chat_id, kind, COALESCE(backend_id, ''), name, email, COALESCE(phone, ''),
               date, time, diners, seating, pickup, created_at
        FROM reservations`

func scanEntries(rows *sql.Rows) ([]*models.JournalEntry, error) {
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(
			&e.ID, &e.ChatID, &e.Kind, &e.BackendID, &e.Name, &e.Email, &e.Phone,
			&e.Date, &e.Time, &e.Diners, &e.Seating, &e.Pickup, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (db *DB) PingContext(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.db.Close()
}
