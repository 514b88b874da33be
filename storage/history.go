package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no exchange matches the requested id.
var ErrNotFound = errors.New("exchange not found")

// Exchange is one prompt and the reply it produced.
type Exchange struct {
	ID           string
	Provider     string
	Model        string
	SystemPrompt string
	Prompt       string
	Response     string
	InputTokens  int64
	OutputTokens int64
	Error        string // Set when the stream ended with an error
	CreatedAt    time.Time
}

// HistoryStorage persists exchanges in <data dir>/history.db.
type HistoryStorage struct {
	db *sql.DB
}

func NewHistoryStorage(dataDir string) (*HistoryStorage, error) {
	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &HistoryStorage{db: db}

	if err := storage.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (hs *HistoryStorage) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id TEXT PRIMARY KEY,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		system_prompt TEXT NOT NULL DEFAULT '',
		prompt TEXT NOT NULL,
		response TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at);
	`

	_, err := hs.db.Exec(schema)
	return err
}

func (hs *HistoryStorage) Close() error {
	return hs.db.Close()
}

// Record stores ex, assigning an id and timestamp when they are unset.
func (hs *HistoryStorage) Record(ctx context.Context, ex *Exchange) error {
	if ex.ID == "" {
		ex.ID = uuid.New().String()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}

	query := `
	INSERT OR REPLACE INTO exchanges (id, provider, model, system_prompt, prompt, response, input_tokens, output_tokens, error, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := hs.db.ExecContext(ctx, query,
		ex.ID,
		ex.Provider,
		ex.Model,
		ex.SystemPrompt,
		ex.Prompt,
		ex.Response,
		ex.InputTokens,
		ex.OutputTokens,
		ex.Error,
		ex.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}
	return nil
}

const selectExchange = `
	SELECT id, provider, model, system_prompt, prompt, response, input_tokens, output_tokens, error, created_at
	FROM exchanges
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExchange(row rowScanner) (Exchange, error) {
	var ex Exchange
	err := row.Scan(
		&ex.ID,
		&ex.Provider,
		&ex.Model,
		&ex.SystemPrompt,
		&ex.Prompt,
		&ex.Response,
		&ex.InputTokens,
		&ex.OutputTokens,
		&ex.Error,
		&ex.CreatedAt,
	)
	return ex, err
}

// Get returns the exchange with the given id.
func (hs *HistoryStorage) Get(ctx context.Context, id string) (*Exchange, error) {
	ex, err := scanExchange(hs.db.QueryRowContext(ctx, selectExchange+`WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange: %w", err)
	}
	return &ex, nil
}

// Last returns the most recent exchange.
func (hs *HistoryStorage) Last(ctx context.Context) (*Exchange, error) {
	recent, err := hs.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, ErrNotFound
	}
	return &recent[0], nil
}

// Recent returns up to limit exchanges, newest first.
func (hs *HistoryStorage) Recent(ctx context.Context, limit int) ([]Exchange, error) {
	rows, err := hs.db.QueryContext(ctx, selectExchange+`ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		exchanges = append(exchanges, ex)
	}

	return exchanges, rows.Err()
}

// Clear deletes every exchange and returns how many were removed.
func (hs *HistoryStorage) Clear(ctx context.Context) (int64, error) {
	res, err := hs.db.ExecContext(ctx, `DELETE FROM exchanges`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
