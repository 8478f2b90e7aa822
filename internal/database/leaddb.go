package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/patpij2/server-login-sub000/internal/model"
)

// LeadDB provides SQLite-based storage for crawl history and batch results.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all batches rather
// than one file per run. This makes "show me past runs" queries trivial
// and keeps backup/restore a single-file operation.
type LeadDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures LeadDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a LeadDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*LeadDB, error) {
	dbPath := filepath.Join(dbDir, "leadscout.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple connections buy nothing here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ldb := &LeadDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := ldb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return ldb, nil
}

// Close closes the database connection.
func (ldb *LeadDB) Close() error {
	return ldb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (ldb *LeadDB) createTables() error {
	schema := `
	-- Page records store individual page fetches for crawl history
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		seed_url TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		status_code INTEGER,
		content_type TEXT,
		title TEXT,
		raw_hash TEXT,
		UNIQUE(url, seed_url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	CREATE INDEX IF NOT EXISTS idx_pages_seed ON pages(seed_url);
	CREATE INDEX IF NOT EXISTS idx_pages_timestamp ON pages(timestamp);

	-- Batch runs store complete batch results as JSON
	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_urls INTEGER NOT NULL,
		successful_urls INTEGER NOT NULL,
		failed_urls INTEGER NOT NULL,
		total_emails INTEGER NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_batches_timestamp ON batches(timestamp);

	-- Seed results index individual seeds within a batch
	CREATE TABLE IF NOT EXISTS seed_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id INTEGER NOT NULL REFERENCES batches(id),
		url TEXT NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		total_emails INTEGER NOT NULL,
		pages_visited INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_seed_results_batch ON seed_results(batch_id);
	CREATE INDEX IF NOT EXISTS idx_seed_results_url ON seed_results(url);
	`

	_, err := ldb.db.ExecContext(context.Background(), schema)
	return err
}

// PageRecord represents a stored page fetch.
type PageRecord struct {
	ID          int64
	URL         string
	SeedURL     string
	Timestamp   time.Time
	StatusCode  int
	ContentType string
	Title       string
	RawHash     string
}

// InsertPageRecord inserts or updates a page record.
// Uses UPSERT to handle duplicates (same URL + seed).
func (ldb *LeadDB) InsertPageRecord(ctx context.Context, record *PageRecord) (int64, error) {
	query := `
	INSERT INTO pages (url, seed_url, status_code, content_type, title, raw_hash)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url, seed_url) DO UPDATE SET
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		title = excluded.title,
		raw_hash = excluded.raw_hash,
		timestamp = CURRENT_TIMESTAMP
	`

	result, err := ldb.db.ExecContext(ctx, query,
		record.URL,
		record.SeedURL,
		record.StatusCode,
		record.ContentType,
		record.Title,
		record.RawHash,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert page record: %w", err)
	}

	return result.LastInsertId()
}

// SavePages stores every fetched page of one seed's crawl.
func (ldb *LeadDB) SavePages(ctx context.Context, seedURL string, pages []*model.Page) error {
	for _, page := range pages {
		record := &PageRecord{
			URL:         page.URL,
			SeedURL:     seedURL,
			StatusCode:  page.StatusCode,
			ContentType: page.ContentType,
			Title:       page.Title,
			RawHash:     page.Hash,
		}
		if _, err := ldb.InsertPageRecord(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

// HasRecentCrawl checks if a URL was crawled within the specified duration.
func (ldb *LeadDB) HasRecentCrawl(ctx context.Context, url string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM pages
	WHERE url = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	if err := ldb.db.QueryRowContext(ctx, query, url, modifier).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent crawl: %w", err)
	}

	return count > 0, nil
}

// SaveBatch stores a complete batch result and indexes its seeds.
// Returns the new batch's row ID.
func (ldb *LeadDB) SaveBatch(ctx context.Context, batch *model.BatchResult) (int64, error) {
	resultJSON, err := json.Marshal(batch)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize batch result: %w", err)
	}

	tx, err := ldb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.ExecContext(ctx, `
	INSERT INTO batches (total_urls, successful_urls, failed_urls, total_emails, result_json)
	VALUES (?, ?, ?, ?, ?)
	`,
		batch.TotalURLs,
		batch.SuccessfulURLs,
		batch.FailedURLs,
		batch.TotalEmails,
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save batch: %w", err)
	}

	batchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read batch ID: %w", err)
	}

	for _, result := range batch.Results {
		if result == nil {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO seed_results (batch_id, url, success, error, total_emails, pages_visited)
		VALUES (?, ?, ?, ?, ?, ?)
		`,
			batchID,
			result.URL,
			boolToInt(result.Success),
			result.Error,
			result.TotalEmails,
			result.PagesVisited,
		); err != nil {
			return 0, fmt.Errorf("failed to save seed result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return batchID, nil
}

// GetBatch retrieves a stored batch result by ID.
// Returns nil without error when the batch does not exist.
func (ldb *LeadDB) GetBatch(ctx context.Context, id int64) (*model.BatchResult, error) {
	var resultJSON string
	err := ldb.db.QueryRowContext(ctx,
		`SELECT result_json FROM batches WHERE id = ?`, id,
	).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	var batch model.BatchResult
	if err := json.Unmarshal([]byte(resultJSON), &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch result: %w", err)
	}
	return &batch, nil
}

// BatchSummary is a lightweight view of a stored batch run.
type BatchSummary struct {
	ID             int64
	Timestamp      time.Time
	TotalURLs      int
	SuccessfulURLs int
	FailedURLs     int
	TotalEmails    int
}

// ListRecentBatches returns up to limit batch summaries, newest first.
func (ldb *LeadDB) ListRecentBatches(ctx context.Context, limit int) ([]BatchSummary, error) {
	rows, err := ldb.db.QueryContext(ctx, `
	SELECT id, timestamp, total_urls, successful_urls, failed_urls, total_emails
	FROM batches
	ORDER BY id DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only rows

	var summaries []BatchSummary
	for rows.Next() {
		var s BatchSummary
		var timestamp string
		if err := rows.Scan(&s.ID, &timestamp, &s.TotalURLs, &s.SuccessfulURLs, &s.FailedURLs, &s.TotalEmails); err != nil {
			return nil, fmt.Errorf("failed to scan batch summary: %w", err)
		}
		s.Timestamp = parseTimestamp(timestamp)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTimestamp parses the timestamp formats SQLite may return.
func parseTimestamp(s string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05.999999999-07:00",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
