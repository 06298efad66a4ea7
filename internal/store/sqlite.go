// SPDX-License-Identifier: AGPL-3.0-only
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/migrateforce/demo-create-api-gateway/internal/model"

	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

// SQLiteStore implements model.AuditStore backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure the parent directory exists.
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// SaveProvision persists one provisioning attempt.
func (s *SQLiteStore) SaveProvision(record *model.ProvisionRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO provisions (tool_call_id, project, api_id, region, api_spec, status, message, api, api_config, gateway, start_time, end_time, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ToolCallID,
		record.Project,
		record.APIID,
		record.Region,
		record.APISpec,
		record.Status,
		record.Message,
		record.API,
		record.APIConfig,
		record.Gateway,
		record.StartTime.Format(timeFormat),
		record.EndTime.Format(timeFormat),
		record.Duration,
	)
	if err != nil {
		return fmt.Errorf("insert provision: %w", err)
	}
	return nil
}

// ListProvisions returns up to limit records ordered by start_time descending
// (most recent first).
func (s *SQLiteStore) ListProvisions(limit int) ([]*model.ProvisionRecord, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.db.Query(`
		SELECT tool_call_id, project, api_id, region, api_spec, status, message, api, api_config, gateway, start_time, end_time, duration
		FROM provisions
		ORDER BY start_time DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query provisions: %w", err)
	}
	defer rows.Close()

	var records []*model.ProvisionRecord
	for rows.Next() {
		var r model.ProvisionRecord
		var startStr, endStr string
		if err := rows.Scan(
			&r.ToolCallID, &r.Project, &r.APIID, &r.Region, &r.APISpec,
			&r.Status, &r.Message, &r.API, &r.APIConfig, &r.Gateway,
			&startStr, &endStr, &r.Duration,
		); err != nil {
			return nil, fmt.Errorf("scan provision row: %w", err)
		}
		r.StartTime, _ = time.Parse(timeFormat, startStr)
		r.EndTime, _ = time.Parse(timeFormat, endStr)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate provision rows: %w", err)
	}

	return records, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
