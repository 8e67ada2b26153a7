package storage

// sqlite.go — almacenamiento de links, watchlist y runs.
//
// Estrategia:
//   - `links`: UNA fila por par de mercados (UPSERT por pair_key). Un link
//     confirmado nunca vuelve a suggested por un upsert: el estado
//     confirmado se preserva en el ON CONFLICT.
//   - `watchlist`: la lista deseada se sustituye entera cada ciclo.
//   - `runs`: una fila por ejecución del pipeline, con los pasos en JSON.
//   - Cache en memoria: evita re-escribir links cuyo score no se movió
//     (> 2% de cambio, o cambio de reason). La mayoría de pares re-puntúan
//     idéntico ciclo a ciclo → reducción grande de escrituras.
//   - Prune automático al arrancar: runs > 30d, links rechazados > 30d.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
-- Un link por par de mercados entre venues
CREATE TABLE IF NOT EXISTS links (
    pair_key     TEXT PRIMARY KEY,
    id           TEXT NOT NULL,
    left_venue   TEXT NOT NULL,
    left_id      TEXT NOT NULL,
    right_venue  TEXT NOT NULL,
    right_id     TEXT NOT NULL,
    topic        TEXT NOT NULL,
    status       TEXT NOT NULL DEFAULT 'suggested',
    score        REAL NOT NULL DEFAULT 0,
    reason       TEXT NOT NULL DEFAULT '',
    algo_version TEXT NOT NULL,
    created_at   DATETIME NOT NULL,
    updated_at   DATETIME NOT NULL,
    last_seen    DATETIME NOT NULL
);

-- Watchlist deseada, higher-priority-wins por mercado
CREATE TABLE IF NOT EXISTS watchlist (
    venue      TEXT NOT NULL,
    market_id  TEXT NOT NULL,
    priority   INTEGER NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    link_id    TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL,
    PRIMARY KEY (venue, market_id)
);

-- Una fila por run del pipeline
CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    algo_version TEXT NOT NULL,
    started_at   DATETIME NOT NULL,
    finished_at  DATETIME NOT NULL,
    failed       INTEGER NOT NULL DEFAULT 0,
    steps        TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_links_status ON links(status);
CREATE INDEX IF NOT EXISTS idx_links_seen   ON links(last_seen DESC);
CREATE INDEX IF NOT EXISTS idx_links_score  ON links(score DESC);
CREATE INDEX IF NOT EXISTS idx_watch_prio   ON watchlist(priority DESC);
CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`

const (
	retentionRuns     = 30 * 24 * time.Hour // runs: 30 días
	retentionRejected = 30 * 24 * time.Hour // links rechazados: 30 días
	scoreChangePct    = 0.02                // 2% de cambio en score → reescribir
	upsertChunkSize   = 200                 // filas por transacción de batch
)

// cachedLink es el snapshot del último estado escrito de un par.
type cachedLink struct {
	score  float64
	reason string
}

// SQLiteStorage implementa los repositorios de links, watchlist y runs
// usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db    *sql.DB
	cache map[string]cachedLink // pair_key → estado escrito
	mu    sync.Mutex
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema, limpia datos antiguos y precarga la cache.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{
		db:    db,
		cache: make(map[string]cachedLink),
	}
	s.pruneOld(context.Background())
	s.warmCache(context.Background())
	return s, nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoffRuns := time.Now().UTC().Add(-retentionRuns)
	cutoffRejected := time.Now().UTC().Add(-retentionRejected)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoffRuns)
	s.db.ExecContext(ctx, `DELETE FROM links WHERE status = 'rejected' AND updated_at < ?`, cutoffRejected)
}

// warmCache precarga la caché desde la DB al arrancar, evitando escrituras
// redundantes en el primer ciclo tras un reinicio.
func (s *SQLiteStorage) warmCache(ctx context.Context) {
	rows, err := s.db.QueryContext(ctx, `SELECT pair_key, score, reason FROM links`)
	if err != nil {
		return
	}
	defer rows.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	for rows.Next() {
		var key, reason string
		var score float64
		if rows.Scan(&key, &score, &reason) == nil {
			s.cache[key] = cachedLink{score: score, reason: reason}
		}
	}
}

// relChange devuelve el cambio relativo entre dos valores (0.0 – ∞).
func relChange(old, new float64) float64 {
	if old == 0 {
		return 1.0 // forzar escritura si antes era 0
	}
	return math.Abs(new-old) / math.Abs(old)
}

// chunk parte un slice en trozos de tamaño acotado.
func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
