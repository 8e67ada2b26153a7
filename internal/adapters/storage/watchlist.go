package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// ReplaceWatchlist sustituye la watchlist completa por la deseada, en una
// sola transacción: la lista es pequeña por construcción (caps duros) y un
// reemplazo parcial dejaría prioridades obsoletas colgando.
func (s *SQLiteStorage) ReplaceWatchlist(ctx context.Context, cands []domain.WatchlistCandidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.ReplaceWatchlist: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM watchlist`); err != nil {
		return fmt.Errorf("storage.ReplaceWatchlist: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO watchlist (venue, market_id, priority, reason, link_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(venue, market_id) DO UPDATE SET
			priority   = MAX(priority, excluded.priority),
			reason     = excluded.reason,
			link_id    = excluded.link_id,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.ReplaceWatchlist: prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range cands {
		if _, err := stmt.ExecContext(ctx,
			string(c.Ref.Venue), c.Ref.MarketID, c.Priority, c.Reason, c.LinkID, now,
		); err != nil {
			return fmt.Errorf("storage.ReplaceWatchlist: insert %s: %w", c.Ref, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.ReplaceWatchlist: commit: %w", err)
	}
	return nil
}

// Watchlist devuelve las entradas actuales ordenadas por prioridad.
func (s *SQLiteStorage) Watchlist(ctx context.Context) ([]domain.WatchlistCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT venue, market_id, priority, reason, link_id
		FROM watchlist
		ORDER BY priority DESC, market_id
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Watchlist: query: %w", err)
	}
	defer rows.Close()

	var cands []domain.WatchlistCandidate
	for rows.Next() {
		var c domain.WatchlistCandidate
		var venue string
		if err := rows.Scan(&venue, &c.Ref.MarketID, &c.Priority, &c.Reason, &c.LinkID); err != nil {
			return nil, fmt.Errorf("storage.Watchlist: scan row: %w", err)
		}
		c.Ref.Venue = domain.Venue(venue)
		cands = append(cands, c)
	}
	return cands, rows.Err()
}

// SaveRun persiste el reporte de un run con sus pasos en JSON.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.RunReport) error {
	steps, err := json.Marshal(run.Steps)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: marshal steps: %w", err)
	}

	failed := 0
	if run.Failed() {
		failed = 1
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, algo_version, started_at, finished_at, failed, steps)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.AlgoVersion, run.StartedAt.UTC(), run.FinishedAt.UTC(), failed, string(steps)); err != nil {
		return fmt.Errorf("storage.SaveRun: insert: %w", err)
	}
	return nil
}

// RecentRuns devuelve los últimos n runs, el más reciente primero.
func (s *SQLiteStorage) RecentRuns(ctx context.Context, n int) ([]domain.RunReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, algo_version, started_at, finished_at, steps
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunReport
	for rows.Next() {
		var r domain.RunReport
		var steps string
		if err := rows.Scan(&r.ID, &r.AlgoVersion, &r.StartedAt, &r.FinishedAt, &steps); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(steps), &r.Steps); err != nil {
			return nil, fmt.Errorf("storage.RecentRuns: unmarshal steps for %s: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
