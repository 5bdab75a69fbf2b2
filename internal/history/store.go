package history

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps a local record of probe runs so repeated smoke-test
// invocations against the same router can be compared over time.
type Store struct {
	conn *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS probe_runs (
    run_id          INTEGER PRIMARY KEY AUTOINCREMENT,
    probe           TEXT NOT NULL,
    target          TEXT NOT NULL,
    requested_model TEXT,
    used_model      TEXT,
    success         INTEGER NOT NULL,
    latency_ms      INTEGER DEFAULT 0,
    detail          TEXT,
    created_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_probe_runs_probe  ON probe_runs(probe);
CREATE INDEX IF NOT EXISTS idx_probe_runs_target ON probe_runs(target);
`

// Open creates (or opens) the sqlite history database at path and
// initializes the schema.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{conn: conn}

	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Run is a single recorded probe outcome.
type Run struct {
	Probe          string
	Target         string
	RequestedModel string
	UsedModel      string
	Success        bool
	Latency        time.Duration
	Detail         string
}

// Record inserts one probe run.
func (s *Store) Record(run Run) error {
	_, err := s.conn.Exec(
		`INSERT INTO probe_runs (probe, target, requested_model, used_model, success, latency_ms, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Probe, run.Target, run.RequestedModel, run.UsedModel,
		boolToInt(run.Success), run.Latency.Milliseconds(), run.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record probe run: %w", err)
	}
	return nil
}

// Summary aggregates all recorded runs of one probe kind.
type Summary struct {
	TotalRuns    int64
	SuccessRate  float64 // percentage 0-100
	AvgLatencyMs float64 // successful runs only
}

// Summarize computes the aggregate outcome of every recorded run of the
// given probe. Failed-run latencies are excluded from the average because
// they mostly measure the timeout, not the router.
func (s *Store) Summarize(probe string) (Summary, error) {
	row := s.conn.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(success), 0),
		        COALESCE(AVG(CASE WHEN success = 1 THEN latency_ms END), 0)
		 FROM probe_runs WHERE probe = ?`,
		probe,
	)

	var total, succeeded int64
	var avgMs float64
	if err := row.Scan(&total, &succeeded, &avgMs); err != nil {
		return Summary{}, fmt.Errorf("failed to summarize probe runs: %w", err)
	}

	var successRate float64
	if total > 0 {
		successRate = float64(succeeded) / float64(total) * 100
	}

	return Summary{
		TotalRuns:    total,
		SuccessRate:  math.Round(successRate*10) / 10,
		AvgLatencyMs: math.Round(avgMs),
	}, nil
}

// RecentRuns returns up to limit most recent runs of the given probe,
// newest first.
func (s *Store) RecentRuns(probe string, limit int) ([]Run, error) {
	rows, err := s.conn.Query(
		`SELECT probe, target, requested_model, used_model, success, latency_ms, detail
		 FROM probe_runs WHERE probe = ? ORDER BY run_id DESC LIMIT ?`,
		probe, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query probe runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var success int
		var latencyMs int64
		if err := rows.Scan(&r.Probe, &r.Target, &r.RequestedModel, &r.UsedModel, &success, &latencyMs, &r.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan probe run: %w", err)
		}
		r.Success = success == 1
		r.Latency = time.Duration(latencyMs) * time.Millisecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
