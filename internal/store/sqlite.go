package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is the local product catalog. It holds the raw upstream
// records exactly as ingested; all shaping into the display schema
// happens downstream in core.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS products (
        id TEXT PRIMARY KEY,
        rank INTEGER NOT NULL DEFAULT 0,
        fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
        record_json TEXT NOT NULL -- raw upstream record as received
    );

    CREATE INDEX IF NOT EXISTS idx_products_rank ON products (rank);
    `
	_, err := s.db.Exec(schema)
	return err
}

// UpsertProduct stores one raw upstream record, replacing any previous
// version of the same product. Records without an upstream id get one
// assigned so they remain addressable.
func (s *SQLiteStore) UpsertProduct(record UpstreamRecord) (string, error) {
	if record.ID == "" {
		record.ID = FlexID(uuid.NewString())
	}
	if record.FetchedAt == "" {
		record.FetchedAt = time.Now().UTC().Format(time.RFC3339)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal record %s: %w", record.ID, err)
	}

	stmt, err := s.db.Prepare("INSERT OR REPLACE INTO products (id, rank, fetched_at, record_json) VALUES (?, ?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare product upsert: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(record.ID.String(), record.RankOrDefault(), record.FetchedAt, string(raw)); err != nil {
		return "", fmt.Errorf("failed to execute product upsert: %w", err)
	}
	return record.ID.String(), nil
}

// ListProducts returns every catalog record in feed order (rank
// ascending). Records whose stored JSON no longer parses are skipped
// rather than failing the whole listing.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]UpstreamRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, record_json FROM products ORDER BY rank ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var records []UpstreamRecord
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		var record UpstreamRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}
		if record.ID == "" {
			record.ID = FlexID(id)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetProductByID returns one record, or nil when the id is unknown.
func (s *SQLiteStore) GetProductByID(ctx context.Context, id string) (*UpstreamRecord, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT record_json FROM products WHERE id = ?", id).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	var record UpstreamRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode stored record %s: %w", id, err)
	}
	if record.ID == "" {
		record.ID = FlexID(id)
	}
	return &record, nil
}

func (s *SQLiteStore) CountProducts() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// IngestFromFile loads a JSON array of upstream product records into
// the catalog and returns how many were stored.
func (s *SQLiteStore) IngestFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read products file %s: %w", path, err)
	}

	var records []UpstreamRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, fmt.Errorf("failed to parse products file %s: %w", path, err)
	}

	ingested := 0
	for _, record := range records {
		if _, err := s.UpsertProduct(record); err != nil {
			return ingested, err
		}
		ingested++
	}
	return ingested, nil
}
