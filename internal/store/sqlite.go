package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stride-cli/internal/model"

	_ "modernc.org/sqlite"
)

const dbVersion = 1

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), "stride.sqlite")
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("store: empty dir")
	}
	if err := os.MkdirAll(filepath.Clean(s.Dir), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (k TEXT PRIMARY KEY, v TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			archived INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			id TEXT PRIMARY KEY,
			goal_id TEXT NOT NULL,
			description TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			timestamp INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS archive (
			id TEXT PRIMARY KEY,
			description TEXT NOT NULL,
			pos INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS template_sets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			steps TEXT NOT NULL DEFAULT '[]',
			pos INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the whole workspace state. A missing database yields an empty
// DB, so `stride` works in a fresh workspace without an init step.
func (s Store) Load(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := migrateSchema(ctx, db); err != nil {
		return nil, err
	}

	st := &DB{Version: dbVersion}

	if v, err := metaGet(ctx, db, "version"); err == nil && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			st.Version = n
		}
	}
	cur, err := metaGet(ctx, db, "current_goal_id")
	if err != nil {
		return nil, err
	}
	st.CurrentGoalID = cur

	rows, err := db.QueryContext(ctx, `SELECT id, title, notes, tags, archived, created_at, updated_at FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var g model.Goal
		var tags string
		var archived int
		var created, updated string
		if err := rows.Scan(&g.ID, &g.Title, &g.Notes, &tags, &archived, &created, &updated); err != nil {
			rows.Close()
			return nil, err
		}
		g.Archived = archived != 0
		g.CreatedAt = parseTime(created)
		g.UpdatedAt = parseTime(updated)
		if err := json.Unmarshal([]byte(tags), &g.Tags); err != nil {
			rows.Close()
			return nil, fmt.Errorf("goal %s tags: %w", g.ID, err)
		}
		if len(g.Tags) == 0 {
			g.Tags = nil
		}
		st.Goals = append(st.Goals, g)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT id, goal_id, description, completed, timestamp FROM steps ORDER BY timestamp, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var step model.Step
		var completed int
		if err := rows.Scan(&step.ID, &step.GoalID, &step.Description, &completed, &step.Timestamp); err != nil {
			rows.Close()
			return nil, err
		}
		step.Completed = completed != 0
		st.Steps = append(st.Steps, step)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT id, description FROM archive ORDER BY pos, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var a model.ArchiveItem
		if err := rows.Scan(&a.ID, &a.Description); err != nil {
			rows.Close()
			return nil, err
		}
		st.Archive = append(st.Archive, a)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT id, name, steps FROM template_sets ORDER BY pos, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var ts model.TemplateSet
		var subs string
		if err := rows.Scan(&ts.ID, &ts.Name, &subs); err != nil {
			rows.Close()
			return nil, err
		}
		if err := json.Unmarshal([]byte(subs), &ts.Steps); err != nil {
			rows.Close()
			return nil, fmt.Errorf("set %s steps: %w", ts.ID, err)
		}
		if len(ts.Steps) == 0 {
			ts.Steps = nil
		}
		st.Sets = append(st.Sets, ts)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	rows, err = db.QueryContext(ctx, `SELECT id, name, created_at FROM tags ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var tg model.Tag
		var created string
		if err := rows.Scan(&tg.ID, &tg.Name, &created); err != nil {
			rows.Close()
			return nil, err
		}
		tg.CreatedAt = parseTime(created)
		st.Tags = append(st.Tags, tg)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	return st, nil
}

// Save writes the whole workspace state. Replace-all inside one transaction:
// simple and safe at personal-tracker scale.
func (s Store) Save(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("store: nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := migrateSchema(ctx, db); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(dbVersion)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta(k, v) VALUES(?, ?)`, "current_goal_id", strings.TrimSpace(st.CurrentGoalID)); err != nil {
		return err
	}

	for _, t := range []string{"goals", "steps", "archive", "template_sets", "tags"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	for _, g := range st.Goals {
		tags, err := json.Marshal(emptyAsList(g.Tags))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals(id, title, notes, tags, archived, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			g.ID, g.Title, g.Notes, string(tags), boolInt(g.Archived),
			g.CreatedAt.UTC().Format(time.RFC3339Nano), g.UpdatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
	}
	for _, step := range st.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO steps(id, goal_id, description, completed, timestamp) VALUES(?, ?, ?, ?, ?)`,
			step.ID, step.GoalID, step.Description, boolInt(step.Completed), step.Timestamp,
		); err != nil {
			return err
		}
	}
	for i, a := range st.Archive {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO archive(id, description, pos) VALUES(?, ?, ?)`,
			a.ID, a.Description, i,
		); err != nil {
			return err
		}
	}
	for i, ts := range st.Sets {
		subs, err := json.Marshal(emptySubsAsList(ts.Steps))
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO template_sets(id, name, steps, pos) VALUES(?, ?, ?, ?)`,
			ts.ID, ts.Name, string(subs), i,
		); err != nil {
			return err
		}
	}
	for _, tg := range st.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags(id, name, created_at) VALUES(?, ?, ?)`,
			tg.ID, tg.Name, tg.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func metaGet(ctx context.Context, db *sql.DB, k string) (string, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = ?`, k).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func emptyAsList(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptySubsAsList(s []model.SubStep) []model.SubStep {
	if s == nil {
		return []model.SubStep{}
	}
	return s
}
