package telemetry

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/island/components"
)

// Store is a SQLite run-history database. It keeps per-tick statistics and
// events for every run; it holds no organism state and cannot resume a run.
type Store struct {
	conn *sqlx.DB
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID         string         `db:"id"`
	StartedAt  string         `db:"started_at"`
	FinishedAt sql.NullString `db:"finished_at"`
	Height     int            `db:"height"`
	Width      int            `db:"width"`
	Ticks      int            `db:"ticks"`
	Reason     string         `db:"reason"`
}

// OpenStore opens or creates a SQLite database at the given path.
// Returns nil if path is empty (history disabled).
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, nil
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		height INTEGER NOT NULL,
		width INTEGER NOT NULL,
		ticks INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS tick_stats (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		died INTEGER NOT NULL,
		born INTEGER NOT NULL,
		regrown INTEGER NOT NULL,
		kills INTEGER NOT NULL,
		starved INTEGER NOT NULL,
		pairings INTEGER NOT NULL,
		total_died INTEGER NOT NULL,
		alive INTEGER NOT NULL,
		plants INTEGER NOT NULL,
		herbivores INTEGER NOT NULL,
		predators INTEGER NOT NULL,
		satiety_mean REAL NOT NULL,
		satiety_std REAL NOT NULL,
		satiety_p10 REAL NOT NULL,
		satiety_p50 REAL NOT NULL,
		satiety_p90 REAL NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS species_counts (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		species TEXT NOT NULL,
		alive INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick, species)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, tick);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// BeginRun inserts a new run row.
func (s *Store) BeginRun(runID string, height, width int, startedAt time.Time) error {
	if s == nil {
		return nil
	}
	_, err := s.conn.Exec(
		"INSERT INTO runs (id, started_at, height, width) VALUES (?, ?, ?, ?)",
		runID, startedAt.UTC().Format(time.RFC3339Nano), height, width,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// FinishRun records the final tick count and termination reason.
func (s *Store) FinishRun(runID string, ticks int, reason string, finishedAt time.Time) error {
	if s == nil {
		return nil
	}
	_, err := s.conn.Exec(
		"UPDATE runs SET finished_at = ?, ticks = ?, reason = ? WHERE id = ?",
		finishedAt.UTC().Format(time.RFC3339Nano), ticks, reason, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// SaveTick writes one tick's stats and species counts in a transaction.
func (s *Store) SaveTick(stats TickStats, catalog *components.Catalog) error {
	if s == nil {
		return nil
	}
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO tick_stats
		(run_id, tick, died, born, regrown, kills, starved, pairings, total_died,
		 alive, plants, herbivores, predators,
		 satiety_mean, satiety_std, satiety_p10, satiety_p50, satiety_p90)
		VALUES (:run_id, :tick, :died, :born, :regrown, :kills, :starved, :pairings, :total_died,
		 :alive, :plants, :herbivores, :predators,
		 :satiety_mean, :satiety_std, :satiety_p10, :satiety_p50, :satiety_p90)`, stats)
	if err != nil {
		return fmt.Errorf("save tick %d: %w", stats.Tick, err)
	}

	stmt, err := tx.Preparex("INSERT INTO species_counts (run_id, tick, species, alive) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sp := range catalog.All() {
		if _, err := stmt.Exec(stats.RunID, stats.Tick, catalog.Name(sp), stats.AliveBySpecies[sp]); err != nil {
			return fmt.Errorf("save species counts: %w", err)
		}
	}

	return tx.Commit()
}

// SaveEvents appends events for a run.
func (s *Store) SaveEvents(runID string, events []Event) error {
	if s == nil || len(events) == 0 {
		return nil
	}
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (run_id, tick, description, category) VALUES (?, ?, ?, ?)",
			runID, e.Tick, e.Description, e.Category,
		); err != nil {
			return fmt.Errorf("save event: %w", err)
		}
	}
	slog.Debug("events saved", "run", runID, "count", len(events))
	return tx.Commit()
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]RunRecord, error) {
	var runs []RunRecord
	err := s.conn.Select(&runs,
		"SELECT id, started_at, finished_at, height, width, ticks, reason FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// TickHistory returns every stored tick of a run in order.
func (s *Store) TickHistory(runID string) ([]TickStats, error) {
	var ticks []TickStats
	err := s.conn.Select(&ticks,
		`SELECT run_id, tick, died, born, regrown, kills, starved, pairings, total_died,
		        alive, plants, herbivores, predators,
		        satiety_mean, satiety_std, satiety_p10, satiety_p50, satiety_p90
		 FROM tick_stats WHERE run_id = ? ORDER BY tick`,
		runID,
	)
	return ticks, err
}

// SpeciesAlive returns the stored alive count of a species at a tick.
func (s *Store) SpeciesAlive(runID string, tick int, species string) (int, error) {
	var n int
	err := s.conn.Get(&n,
		"SELECT alive FROM species_counts WHERE run_id = ? AND tick = ? AND species = ?",
		runID, tick, species,
	)
	return n, err
}

// Events returns the events of a run in order.
func (s *Store) Events(runID string) ([]Event, error) {
	var events []Event
	err := s.conn.Select(&events,
		"SELECT tick, description, category FROM events WHERE run_id = ? ORDER BY id",
		runID,
	)
	return events, err
}
