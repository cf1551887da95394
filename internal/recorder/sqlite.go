package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"SMCSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers do not block the scheduler's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS smc_snapshots (
			id                   TEXT PRIMARY KEY,
			timestamp            INTEGER NOT NULL,
			symbol               TEXT NOT NULL,
			interval             TEXT NOT NULL,
			bars                 INTEGER,
			last_bar_time        INTEGER,
			current_price        REAL,
			current_trend        TEXT,
			bullish_order_blocks INTEGER,
			bearish_order_blocks INTEGER,
			bullish_fvgs         INTEGER,
			bearish_fvgs         INTEGER,
			msb_bullish_recent   INTEGER,
			msb_bearish_recent   INTEGER,
			bos_bullish_recent   INTEGER,
			bos_bearish_recent   INTEGER,
			bullish_signals      INTEGER,
			bearish_signals      INTEGER,
			score                INTEGER,
			signal               TEXT,
			interpretation       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON smc_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS smc_zones (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id TEXT NOT NULL REFERENCES smc_snapshots(id),
			kind        TEXT NOT NULL,
			direction   TEXT NOT NULL,
			bar_index   INTEGER,
			bar_time    INTEGER,
			low         REAL,
			high        REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_zones_snapshot ON smc_zones(snapshot_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordReport stores the snapshot and its zones in one transaction.
func (r *SQLiteRecorder) RecordReport(rep *model.Report) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	s := rep.Summary
	ts := rep.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	var lastBar int64
	if !rep.LastBarTime.IsZero() {
		lastBar = rep.LastBarTime.Unix()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO smc_snapshots
		(id, timestamp, symbol, interval, bars, last_bar_time, current_price, current_trend,
		 bullish_order_blocks, bearish_order_blocks, bullish_fvgs, bearish_fvgs,
		 msb_bullish_recent, msb_bearish_recent, bos_bullish_recent, bos_bearish_recent,
		 bullish_signals, bearish_signals, score, signal, interpretation)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, ts.Unix(), rep.Symbol, rep.Interval, rep.Bars, lastBar, s.CurrentPrice, string(s.CurrentTrend),
		s.BullishOrderBlocks, s.BearishOrderBlocks, s.BullishFVGs, s.BearishFVGs,
		s.MSBBullishRecent, s.MSBBearishRecent, s.BoSBullishRecent, s.BoSBearishRecent,
		s.BullishSignals, s.BearishSignals, rep.Score.Score, string(rep.Score.Signal), rep.Score.Interpretation,
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	for _, z := range rep.Zones {
		var barTime int64
		if !z.Time.IsZero() {
			barTime = z.Time.Unix()
		}
		if _, err := tx.Exec(`INSERT INTO smc_zones
			(snapshot_id, kind, direction, bar_index, bar_time, low, high) VALUES (?,?,?,?,?,?,?)`,
			id, string(z.Type), string(z.Direction), z.Index, barTime, z.Low, z.High,
		); err != nil {
			return "", fmt.Errorf("insert %s zone: %w", z.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// LastSignals returns the signal of the newest snapshot per symbol.
func (r *SQLiteRecorder) LastSignals() (map[string]model.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT s.symbol, s.signal FROM smc_snapshots s
		WHERE s.rowid = (SELECT s2.rowid FROM smc_snapshots s2 WHERE s2.symbol = s.symbol
		                 ORDER BY s2.timestamp DESC, s2.rowid DESC LIMIT 1)`)
	if err != nil {
		return nil, fmt.Errorf("query last signals: %w", err)
	}
	defer rows.Close()

	out := map[string]model.Signal{}
	for rows.Next() {
		var symbol, signal string
		if err := rows.Scan(&symbol, &signal); err != nil {
			return nil, fmt.Errorf("scan last signal: %w", err)
		}
		out[symbol] = model.Signal(signal)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
