// Package persistence stores the village's event log, per-day agent display
// snapshots, and run metadata in SQLite. Snapshots are for observation only;
// a run is never resumed from them.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/mini-village/internal/agents"
	"github.com/talgya/mini-village/internal/engine"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS agent_snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		action TEXT NOT NULL,
		reason TEXT NOT NULL,
		mood TEXT NOT NULL,
		reputation REAL NOT NULL,
		needs_json TEXT NOT NULL,
		inventory_json TEXT NOT NULL,
		skills_json TEXT NOT NULL,
		titles_json TEXT NOT NULL,
		PRIMARY KEY (run_id, tick, id)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// AgentRow is one stored agent snapshot.
type AgentRow struct {
	RunID      string  `db:"run_id" json:"run_id"`
	Tick       uint64  `db:"tick" json:"tick"`
	ID         uint64  `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	X          int     `db:"x" json:"x"`
	Y          int     `db:"y" json:"y"`
	Alive      bool    `db:"alive" json:"alive"`
	Action     string  `db:"action" json:"action"`
	Reason     string  `db:"reason" json:"reason"`
	Mood       string  `db:"mood" json:"mood"`
	Reputation float64 `db:"reputation" json:"reputation"`
	Needs      string  `db:"needs_json" json:"needs"`
	Inventory  string  `db:"inventory_json" json:"inventory"`
	Skills     string  `db:"skills_json" json:"skills"`
	Titles     string  `db:"titles_json" json:"titles"`
}

// SaveAgents writes one snapshot row per agent for the given tick.
func (db *DB) SaveAgents(runID string, tick uint64, agentList []agents.Agent) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO agent_snapshots
		(run_id, tick, id, name, x, y, alive, action, reason, mood, reputation,
		 needs_json, inventory_json, skills_json, titles_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range agentList {
		needsJSON, _ := json.Marshal(a.Needs)
		invJSON, _ := json.Marshal(a.Inventory)
		skillsJSON, _ := json.Marshal(a.Skills)
		titlesJSON, _ := json.Marshal(a.Titles)

		alive := 0
		if a.Alive {
			alive = 1
		}
		_, err := stmt.Exec(
			runID, tick, uint64(a.ID), a.Name, a.Position.X, a.Position.Y, alive,
			a.Action.Current.Type.String(), a.Action.Current.Reason, string(a.Mood), a.Reputation.Score,
			string(needsJSON), string(invJSON), string(skillsJSON), string(titlesJSON),
		)
		if err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// AgentSnapshots returns the latest stored snapshot of every agent in a run.
func (db *DB) AgentSnapshots(runID string) ([]AgentRow, error) {
	var rows []AgentRow
	err := db.conn.Select(&rows, `
		SELECT run_id, tick, id, name, x, y, alive, action, reason, mood, reputation,
		       needs_json, inventory_json, skills_json, titles_json
		FROM agent_snapshots
		WHERE run_id = ? AND tick = (SELECT MAX(tick) FROM agent_snapshots WHERE run_id = ?)
		ORDER BY id`, runID, runID)
	return rows, err
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(runID string, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, agent_id, description, category) VALUES (?, ?, ?, ?, ?)",
			runID, e.Tick, uint64(e.AgentID), e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveMeta stores a key-value pair in world metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// SaveDaily flushes pending events, snapshots every agent, and records the
// run's progress.
func (db *DB) SaveDaily(runID string, sim *engine.Simulation) error {
	tick := sim.CurrentTick()
	snapshot := sim.Snapshot()
	events := sim.DrainEvents()
	slog.Info("saving daily snapshot", "run", runID, "tick", tick, "agents", len(snapshot), "events", len(events))

	if err := db.SaveEvents(runID, events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveAgents(runID, tick, snapshot); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	if err := db.SaveMeta("last_run", runID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", tick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		"SELECT tick, category, agent_id, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}
