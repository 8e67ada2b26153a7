package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// UpsertLinks inserta o actualiza links por pair_key, en batches acotados
// cada uno con su propia transacción (reintentables independientemente).
// El ON CONFLICT preserva id, created_at y los estados terminales con su
// reason: un link confirmado o rechazado no se degrada porque re-puntuó,
// y la lista de reglas de un rechazo no se pisa con un reason de scoring.
func (s *SQLiteStorage) UpsertLinks(ctx context.Context, links []domain.MarketLink) error {
	toWrite := s.filterChanged(links)
	if len(toWrite) == 0 {
		return nil // nada se movió — la gran mayoría de ciclos terminan aquí
	}

	for _, batch := range chunk(toWrite, upsertChunkSize) {
		if err := s.upsertBatch(ctx, batch); err != nil {
			return err
		}
		s.rememberWritten(batch)
	}
	return nil
}

func (s *SQLiteStorage) upsertBatch(ctx context.Context, batch []domain.MarketLink) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.UpsertLinks: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO links
			(pair_key, id, left_venue, left_id, right_venue, right_id,
			 topic, status, score, reason, algo_version,
			 created_at, updated_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pair_key) DO UPDATE SET
			score        = excluded.score,
			algo_version = excluded.algo_version,
			updated_at   = excluded.updated_at,
			last_seen    = excluded.last_seen,
			reason       = CASE WHEN links.status IN ('confirmed', 'rejected')
			                    THEN links.reason ELSE excluded.reason END,
			status       = CASE WHEN links.status IN ('confirmed', 'rejected')
			                    THEN links.status ELSE excluded.status END
	`)
	if err != nil {
		return fmt.Errorf("storage.UpsertLinks: prepare: %w", err)
	}
	defer stmt.Close()

	for _, l := range batch {
		if _, err := stmt.ExecContext(ctx,
			l.PairKey(), l.ID,
			string(l.Left.Venue), l.Left.MarketID,
			string(l.Right.Venue), l.Right.MarketID,
			string(l.Topic), string(l.Status),
			l.Score, l.Reason, l.AlgoVersion,
			l.CreatedAt.UTC(), l.UpdatedAt.UTC(), l.LastSeen.UTC(),
		); err != nil {
			return fmt.Errorf("storage.UpsertLinks: upsert %s: %w", l.PairKey(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.UpsertLinks: commit: %w", err)
	}
	return nil
}

// filterChanged devuelve los links cuyo estado escrito cambió respecto a
// la caché. No toca la caché: eso pasa en rememberWritten, tras el commit.
func (s *SQLiteStorage) filterChanged(links []domain.MarketLink) []domain.MarketLink {
	s.mu.Lock()
	defer s.mu.Unlock()

	var toWrite []domain.MarketLink
	for _, l := range links {
		if prev, ok := s.cache[l.PairKey()]; ok {
			unchanged := prev.reason == l.Reason &&
				relChange(prev.score, l.Score) < scoreChangePct
			if unchanged {
				continue
			}
		}
		toWrite = append(toWrite, l)
	}
	return toWrite
}

// rememberWritten actualiza la caché con un batch ya commiteado. Si el
// batch falló la caché no se toca: de otro modo el reintento del ciclo
// siguiente se suprimiría contra un estado que nunca llegó al disco.
func (s *SQLiteStorage) rememberWritten(batch []domain.MarketLink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range batch {
		s.cache[l.PairKey()] = cachedLink{score: l.Score, reason: l.Reason}
	}
}

// LinksByStatus devuelve los links en el estado dado, mejores primero.
func (s *SQLiteStorage) LinksByStatus(ctx context.Context, status domain.LinkStatus) ([]domain.MarketLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, left_venue, left_id, right_venue, right_id,
		       topic, status, score, reason, algo_version,
		       created_at, updated_at, last_seen
		FROM links
		WHERE status = ?
		ORDER BY score DESC
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("storage.LinksByStatus: query: %w", err)
	}
	defer rows.Close()

	var links []domain.MarketLink
	for rows.Next() {
		var l domain.MarketLink
		var leftVenue, rightVenue, topic, st string
		if err := rows.Scan(
			&l.ID, &leftVenue, &l.Left.MarketID, &rightVenue, &l.Right.MarketID,
			&topic, &st, &l.Score, &l.Reason, &l.AlgoVersion,
			&l.CreatedAt, &l.UpdatedAt, &l.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("storage.LinksByStatus: scan row: %w", err)
		}
		l.Left.Venue = domain.Venue(leftVenue)
		l.Right.Venue = domain.Venue(rightVenue)
		l.Topic = domain.Topic(topic)
		l.Status = domain.LinkStatus(st)
		links = append(links, l)
	}
	return links, rows.Err()
}

// UpdateStatus transiciona un link a un nuevo estado con su razón, y
// refresca la caché de supresión para que el próximo upsert del par no se
// compare contra el estado anterior a la transición.
func (s *SQLiteStorage) UpdateStatus(ctx context.Context, linkID string, status domain.LinkStatus, reason string) error {
	var pairKey string
	var score float64
	err := s.db.QueryRowContext(ctx, `
		UPDATE links SET status = ?, reason = ?, updated_at = ?
		WHERE id = ?
		RETURNING pair_key, score
	`, string(status), reason, time.Now().UTC(), linkID).Scan(&pairKey, &score)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("storage.UpdateStatus: link %s not found", linkID)
	}
	if err != nil {
		return fmt.Errorf("storage.UpdateStatus: %s: %w", linkID, err)
	}

	s.mu.Lock()
	s.cache[pairKey] = cachedLink{score: score, reason: reason}
	s.mu.Unlock()
	return nil
}

// TouchLastSeen marca los links dados como vistos en este ciclo.
func (s *SQLiteStorage) TouchLastSeen(ctx context.Context, linkIDs []string, seenAt time.Time) error {
	for _, batch := range chunk(linkIDs, upsertChunkSize) {
		placeholders := strings.Repeat("?,", len(batch)-1) + "?"
		args := make([]any, 0, len(batch)+1)
		args = append(args, seenAt.UTC())
		for _, id := range batch {
			args = append(args, id)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE links SET last_seen = ? WHERE id IN (`+placeholders+`)`, args...,
		); err != nil {
			return fmt.Errorf("storage.TouchLastSeen: %w", err)
		}
	}
	return nil
}

// PruneStale elimina links sugeridos no vistos desde antes del corte.
// Los confirmados no se podan: su par puede reaparecer y la revisión
// humana o automática que los confirmó no se tira.
func (s *SQLiteStorage) PruneStale(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM links WHERE status = 'suggested' AND last_seen < ?
	`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("storage.PruneStale: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
