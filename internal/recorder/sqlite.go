package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SMACrossover/internal/model"
)

// SQLiteRecorder persists backtest runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id                         INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at                INTEGER NOT NULL,
			symbol                     TEXT NOT NULL,
			start_ts                   INTEGER NOT NULL,
			end_ts                     INTEGER NOT NULL,
			rows                       INTEGER NOT NULL,
			short_window               INTEGER NOT NULL,
			long_window                INTEGER NOT NULL,
			periods_per_year           INTEGER NOT NULL,
			total_return               REAL,
			annualized_return          REAL,
			buy_hold_total_return      REAL,
			buy_hold_annualized_return REAL,
			max_drawdown               REAL,
			buy_hold_max_drawdown      REAL,
			exposure                   REAL,
			trades                     INTEGER,
			elapsed_days               INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_recorded ON backtest_runs(recorded_at)`,

		`CREATE TABLE IF NOT EXISTS frame_rows (
			run_id              INTEGER NOT NULL REFERENCES backtest_runs(id),
			idx                 INTEGER NOT NULL,
			timestamp           INTEGER NOT NULL,
			close               REAL NOT NULL,
			sma_short           REAL,
			sma_long            REAL,
			raw_signal          INTEGER NOT NULL,
			position            INTEGER NOT NULL,
			period_return       REAL NOT NULL,
			strategy_return     REAL NOT NULL,
			cum_return          REAL NOT NULL,
			cum_strategy_return REAL NOT NULL,
			PRIMARY KEY (run_id, idx)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(o model.OptionalFloat) sql.NullFloat64 {
	return sql.NullFloat64{Float64: o.Value, Valid: o.Valid}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RecordRun writes the run header and all of its frame rows in one transaction.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, res *model.BacktestResult) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	s := res.Summary
	out, err := tx.ExecContext(ctx, `INSERT INTO backtest_runs
		(recorded_at, symbol, start_ts, end_ts, rows,
		 short_window, long_window, periods_per_year,
		 total_return, annualized_return, buy_hold_total_return, buy_hold_annualized_return,
		 max_drawdown, buy_hold_max_drawdown, exposure, trades, elapsed_days)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.Symbol, res.Start.Unix(), res.End.Unix(), len(res.Frame),
		res.Params.ShortWindow, res.Params.LongWindow, res.Params.PeriodsPerYear,
		s.TotalReturn, s.AnnualizedReturn, s.BuyHoldTotalReturn, s.BuyHoldAnnualizedReturn,
		s.MaxDrawdown, s.BuyHoldMaxDrawdown, s.Exposure, s.Trades, s.ElapsedDays,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := out.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO frame_rows
		(run_id, idx, timestamp, close, sma_short, sma_long, raw_signal, position,
		 period_return, strategy_return, cum_return, cum_strategy_return)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range res.Frame {
		if _, err := stmt.ExecContext(ctx,
			runID, i, row.Time.Unix(), row.Close,
			nullable(row.SMAShort), nullable(row.SMALong),
			boolInt(row.RawSignal), row.Position,
			row.PeriodReturn, row.StrategyReturn, row.CumReturn, row.CumStrategyReturn,
		); err != nil {
			return 0, fmt.Errorf("insert frame row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// ListRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT
		id, recorded_at, symbol, start_ts, end_ts, rows,
		short_window, long_window, periods_per_year,
		total_return, annualized_return, buy_hold_total_return, buy_hold_annualized_return,
		max_drawdown, buy_hold_max_drawdown, exposure, trades, elapsed_days
		FROM backtest_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			rs                      RunSummary
			recorded, start, finish int64
		)
		if err := rows.Scan(
			&rs.ID, &recorded, &rs.Symbol, &start, &finish, &rs.Rows,
			&rs.Params.ShortWindow, &rs.Params.LongWindow, &rs.Params.PeriodsPerYear,
			&rs.Summary.TotalReturn, &rs.Summary.AnnualizedReturn,
			&rs.Summary.BuyHoldTotalReturn, &rs.Summary.BuyHoldAnnualizedReturn,
			&rs.Summary.MaxDrawdown, &rs.Summary.BuyHoldMaxDrawdown,
			&rs.Summary.Exposure, &rs.Summary.Trades, &rs.Summary.ElapsedDays,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.RecordedAt = time.Unix(recorded, 0).UTC()
		rs.Start = time.Unix(start, 0).UTC()
		rs.End = time.Unix(finish, 0).UTC()
		runs = append(runs, rs)
	}
	return runs, rows.Err()
}

// LoadFrame reads back the frame rows of a recorded run.
func (r *SQLiteRecorder) LoadFrame(ctx context.Context, runID int64) (model.Frame, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT
		timestamp, close, sma_short, sma_long, raw_signal, position,
		period_return, strategy_return, cum_return, cum_strategy_return
		FROM frame_rows WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("query frame: %w", err)
	}
	defer rows.Close()

	var frame model.Frame
	for rows.Next() {
		var (
			row         model.IndicatorRow
			ts          int64
			short, long sql.NullFloat64
			signal      int
		)
		if err := rows.Scan(&ts, &row.Close, &short, &long, &signal, &row.Position,
			&row.PeriodReturn, &row.StrategyReturn, &row.CumReturn, &row.CumStrategyReturn); err != nil {
			return nil, fmt.Errorf("scan frame row: %w", err)
		}
		row.Time = time.Unix(ts, 0).UTC()
		row.SMAShort = model.OptionalFloat{Value: short.Float64, Valid: short.Valid}
		row.SMALong = model.OptionalFloat{Value: long.Float64, Valid: long.Valid}
		row.RawSignal = signal != 0
		frame = append(frame, row)
	}
	return frame, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
