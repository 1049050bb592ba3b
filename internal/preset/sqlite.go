/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package preset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"quickfix/internal/export"
	applog "quickfix/internal/log"
	"quickfix/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

// schemaVersion tracks the local SQLite schema for the preset store.
// Bump this when you perform breaking schema changes and add migrations.
const schemaVersion = 1

// SQLiteStore persists presets in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the preset database at path, enables WAL
// mode and ensures the meta/version and preset tables exist.
func OpenSQLite(path string) (*SQLiteStore, error) {
	l := applog.WithOperation(applog.WithComponent("preset"), "open").With(
		slog.String("path", path),
	)
	if path == "" {
		return nil, errors.New("preset database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.Error("create db dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure schema failed", slog.Any("err", err))
		return nil, err
	}
	l.Info("preset store ready")
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS presets (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL UNIQUE,
			settings    TEXT NOT NULL,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var cur int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx,
			`INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`,
			schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case cur != schemaVersion:
		if _, err := db.ExecContext(ctx,
			`UPDATE version SET schema=?, app=?, updated_at=? WHERE id=1`,
			schemaVersion, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, p Preset) (Preset, error) {
	var holder int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM presets WHERE name=?`, p.Name).Scan(&holder)
	switch {
	case err == nil && holder != p.ID:
		return Preset{}, fmt.Errorf("save preset %q: %w", p.Name, ErrNameTaken)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return Preset{}, fmt.Errorf("check name: %w", err)
	}

	p.Settings = export.Normalize(p.Settings)
	blob, err := json.Marshal(p.Settings)
	if err != nil {
		return Preset{}, fmt.Errorf("encode settings: %w", err)
	}
	now := time.Now().UTC()
	ts := now.Format(time.RFC3339)

	if p.ID == 0 {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO presets (name, settings, created_at, updated_at) VALUES(?, ?, ?, ?)`,
			p.Name, string(blob), ts, ts)
		if err != nil {
			return Preset{}, fmt.Errorf("insert preset: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return Preset{}, fmt.Errorf("insert preset id: %w", err)
		}
		p.ID = id
		p.CreatedAt = now
		p.UpdatedAt = now
		return p, nil
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE presets SET name=?, settings=?, updated_at=? WHERE id=?`,
		p.Name, string(blob), ts, p.ID)
	if err != nil {
		return Preset{}, fmt.Errorf("update preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Preset{}, fmt.Errorf("update preset rows: %w", err)
	}
	if n == 0 {
		return Preset{}, fmt.Errorf("save preset %d: %w", p.ID, ErrNotFound)
	}
	return s.Get(ctx, p.ID)
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, settings, created_at, updated_at FROM presets WHERE id=?`, id)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("preset %d: %w", id, ErrNotFound)
	}
	return p, err
}

func (s *SQLiteStore) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, settings, created_at, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()
	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preset rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("preset %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(r rowScanner) (Preset, error) {
	var p Preset
	var blob, created, updated string
	if err := r.Scan(&p.ID, &p.Name, &blob, &created, &updated); err != nil {
		return Preset{}, err
	}
	if err := json.Unmarshal([]byte(blob), &p.Settings); err != nil {
		return Preset{}, fmt.Errorf("decode settings: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		p.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updated); err == nil {
		p.UpdatedAt = t
	}
	return p, nil
}
