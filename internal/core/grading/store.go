package grading

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/telemetry"

	_ "modernc.org/sqlite"
)

const (
	maxStoreBytes int64   = 256 << 20 // 256 MiB of grading history is years of slates
	evictPct      float64 = 0.10
)

// Store persists grading summaries in SQLite, one row per (league, date)
// with replace-on-conflict semantics, plus per-game outcome rows. When the
// file exceeds its budget the oldest 10% of dates are evicted.
type Store struct {
	db         *sql.DB
	mu         sync.Mutex
	cachedSize int64
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create grading store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init grading schema: %w", err)
	}

	s := &Store{db: db}
	s.refreshSize()
	telemetry.Plainf("grading store: opened %s  size=%s", path, humanize.IBytes(uint64(s.cachedSize)))
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS grading_summaries (
	league     TEXT NOT NULL,
	date       TEXT NOT NULL,
	run_id     TEXT NOT NULL,

	completed  INTEGER NOT NULL,
	graded     INTEGER NOT NULL,
	wins       INTEGER NOT NULL,
	losses     INTEGER NOT NULL,
	pushes     INTEGER NOT NULL,
	passes     INTEGER NOT NULL,
	no_score   INTEGER NOT NULL,

	win_rate   REAL,
	avg_edge   REAL,
	avg_conf   REAL,

	PRIMARY KEY (league, date)
);

CREATE TABLE IF NOT EXISTS grading_outcomes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	league     TEXT NOT NULL,
	date       TEXT NOT NULL,
	game_id    TEXT NOT NULL,
	pick_side  TEXT,
	result     TEXT NOT NULL,
	edge       REAL,
	confidence REAL,
	UNIQUE (league, date, game_id)
);

CREATE INDEX IF NOT EXISTS idx_outcomes_league_date ON grading_outcomes (league, date);`

// UpsertSummary replaces the summary and outcome rows for the summary's
// (league, date).
func (s *Store) UpsertSummary(sum GradingSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO grading_summaries
			(league, date, run_id, completed, graded, wins, losses, pushes, passes, no_score, win_rate, avg_edge, avg_conf)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sum.League, sum.Date, sum.RunID,
		sum.Completed, sum.Graded, sum.Wins, sum.Losses, sum.Pushes, sum.Passes, sum.NoScore,
		nullF64(sum.WinRate), nullF64(sum.AvgEdge), nullF64(sum.AvgConfidence),
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM grading_outcomes WHERE league = ? AND date = ?`, sum.League, sum.Date); err != nil {
		return fmt.Errorf("clear outcomes: %w", err)
	}
	for _, oc := range sum.Outcomes {
		_, err := tx.Exec(
			`INSERT INTO grading_outcomes (league, date, game_id, pick_side, result, edge, confidence)
			 VALUES (?,?,?,?,?,?,?)`,
			sum.League, sum.Date, oc.GameID, oc.PickSide, oc.Result, nullF64(oc.Edge), nullF64(oc.Confidence),
		)
		if err != nil {
			return fmt.Errorf("insert outcome %s: %w", oc.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}

	s.refreshSize()
	if s.cachedSize > maxStoreBytes {
		s.evict()
	}
	return nil
}

// GetSummary loads a stored summary with its outcomes. The second return
// is false when the (league, date) has never been graded.
func (s *Store) GetSummary(lg league.League, date string) (GradingSummary, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum GradingSummary
	var winRate, avgEdge, avgConf sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT league, date, run_id, completed, graded, wins, losses, pushes, passes, no_score, win_rate, avg_edge, avg_conf
		 FROM grading_summaries WHERE league = ? AND date = ?`, lg, date,
	).Scan(&sum.League, &sum.Date, &sum.RunID,
		&sum.Completed, &sum.Graded, &sum.Wins, &sum.Losses, &sum.Pushes, &sum.Passes, &sum.NoScore,
		&winRate, &avgEdge, &avgConf)
	if err == sql.ErrNoRows {
		return GradingSummary{}, false, nil
	}
	if err != nil {
		return GradingSummary{}, false, fmt.Errorf("load summary: %w", err)
	}
	sum.WinRate = fromNull(winRate)
	sum.AvgEdge = fromNull(avgEdge)
	sum.AvgConfidence = fromNull(avgConf)

	rows, err := s.db.Query(
		`SELECT game_id, pick_side, result, edge, confidence
		 FROM grading_outcomes WHERE league = ? AND date = ? ORDER BY id`, lg, date)
	if err != nil {
		return GradingSummary{}, false, fmt.Errorf("load outcomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var oc GradingOutcome
		var side sql.NullString
		var edge, conf sql.NullFloat64
		if err := rows.Scan(&oc.GameID, &side, &oc.Result, &edge, &conf); err != nil {
			return GradingSummary{}, false, fmt.Errorf("scan outcome: %w", err)
		}
		oc.PickSide = side.String
		oc.Edge = fromNull(edge)
		oc.Confidence = fromNull(conf)
		sum.Outcomes = append(sum.Outcomes, oc)
	}
	return sum, true, rows.Err()
}

// refreshSize re-reads the database file size from SQLite pragmas.
// Must be called with s.mu held.
func (s *Store) refreshSize() {
	var size int64
	row := s.db.QueryRow(`SELECT COALESCE(page_count * page_size, 0) FROM pragma_page_count(), pragma_page_size()`)
	if err := row.Scan(&size); err == nil {
		s.cachedSize = size
	}
}

// evict drops the oldest 10% of graded dates (summaries and outcomes).
// Must be called with s.mu held.
func (s *Store) evict() {
	var total int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM grading_summaries`).Scan(&total); err != nil || total == 0 {
		return
	}
	toDelete := int64(float64(total) * evictPct)
	if toDelete < 1 {
		toDelete = 1
	}

	res, err := s.db.Exec(
		`DELETE FROM grading_outcomes WHERE (league, date) IN (
			SELECT league, date FROM grading_summaries ORDER BY date ASC LIMIT ?
		)`, toDelete)
	if err != nil {
		telemetry.Warnf("grading store evict outcomes: %v", err)
		return
	}
	if _, err := s.db.Exec(
		`DELETE FROM grading_summaries WHERE (league, date) IN (
			SELECT league, date FROM grading_summaries ORDER BY date ASC LIMIT ?
		)`, toDelete); err != nil {
		telemetry.Warnf("grading store evict summaries: %v", err)
		return
	}

	dropped, _ := res.RowsAffected()
	telemetry.Infof("grading store: evicted %d date(s), %d outcome rows", toDelete, dropped)
	s.refreshSize()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullF64(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
