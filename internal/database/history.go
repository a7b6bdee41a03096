package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/imgshield/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "imgshield.db"

// HistoryDB provides SQLite-based storage for privacy scores and reviews.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

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

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS score_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		score INTEGER NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		image TEXT,
		digest TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scores_timestamp ON score_history(timestamp);

	-- Complete reviews, newest first per digest
	CREATE TABLE IF NOT EXISTS reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		digest TEXT NOT NULL,
		image TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		review_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reviews_digest ON reviews(digest);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScore records a privacy score and trims the history so that at most
// limit entries remain. A limit of zero or less keeps every entry.
// The entry's ID and Timestamp are set from the stored row.
func (h *HistoryDB) SaveScore(ctx context.Context, entry *model.ScoreEntry, limit int) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO score_history (score, timestamp, image, digest) VALUES (?, ?, ?, ?)`,
		entry.Score,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
		entry.Image,
		entry.Digest,
	)
	if err != nil {
		return fmt.Errorf("failed to save score: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get score id: %w", err)
	}

	if limit > 0 {
		_, err = tx.ExecContext(ctx, `
		DELETE FROM score_history
		WHERE id NOT IN (SELECT id FROM score_history ORDER BY id DESC LIMIT ?)
		`, limit)
		if err != nil {
			return fmt.Errorf("failed to trim score history: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit score: %w", err)
	}
	entry.ID = id
	return nil
}

// ListScores returns up to limit scores in chronological order, oldest first.
// A limit of zero or less returns every entry.
func (h *HistoryDB) ListScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	query := `
	SELECT id, score, timestamp, image, digest FROM (
		SELECT id, score, timestamp, image, digest FROM score_history
		ORDER BY id DESC
		LIMIT ?
	) ORDER BY id ASC
	`
	if limit <= 0 {
		limit = -1
	}

	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var results []model.ScoreEntry
	for rows.Next() {
		var entry model.ScoreEntry
		var timestamp string
		var image, digest sql.NullString

		if err := rows.Scan(&entry.ID, &entry.Score, &timestamp, &image, &digest); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		entry.Timestamp = parseTimestamp(timestamp)
		entry.Image = image.String
		entry.Digest = digest.String
		results = append(results, entry)
	}

	return results, rows.Err()
}

// ClearScores deletes every stored score.
func (h *HistoryDB) ClearScores(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM score_history`); err != nil {
		return fmt.Errorf("failed to clear score history: %w", err)
	}
	return nil
}

// SaveReview stores a complete review as JSON. Reviews without a digest
// cannot be looked up again and are rejected.
func (h *HistoryDB) SaveReview(ctx context.Context, review *model.ImageReview) error {
	if review.Digest == "" {
		return errors.New("review has no digest")
	}

	reviewJSON, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to serialize review: %w", err)
	}

	_, err = h.db.ExecContext(ctx,
		`INSERT INTO reviews (digest, image, timestamp, review_json) VALUES (?, ?, ?, ?)`,
		review.Digest,
		filepath.Base(review.Image),
		review.DateReviewed.UTC().Format(time.RFC3339Nano),
		string(reviewJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// LatestReview returns the most recent review of the image with the given
// digest, or nil if the image was never reviewed.
func (h *HistoryDB) LatestReview(ctx context.Context, digest string) (*model.ImageReview, error) {
	query := `
	SELECT review_json FROM reviews
	WHERE digest = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var reviewJSON string
	err := h.db.QueryRowContext(ctx, query, digest).Scan(&reviewJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	var review model.ImageReview
	if err := json.Unmarshal([]byte(reviewJSON), &review); err != nil {
		return nil, fmt.Errorf("failed to parse review: %w", err)
	}
	return &review, nil
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
