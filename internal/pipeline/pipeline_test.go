package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	venue   domain.Venue
	records []domain.MarketRecord
	err     error
}

func (f *fakeProvider) Venue() domain.Venue { return f.venue }

func (f *fakeProvider) FetchOpenMarkets(ctx context.Context, closeBefore time.Time) ([]domain.MarketRecord, error) {
	return f.records, f.err
}

type fakeLinkRepo struct {
	links     map[string]domain.MarketLink // por PairKey
	upsertErr error
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[string]domain.MarketLink)}
}

func (r *fakeLinkRepo) UpsertLinks(ctx context.Context, links []domain.MarketLink) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	for _, l := range links {
		if cur, ok := r.links[l.PairKey()]; ok {
			// el upsert preserva id, estado y created_at existentes
			l.ID, l.Status, l.CreatedAt = cur.ID, cur.Status, cur.CreatedAt
		}
		r.links[l.PairKey()] = l
	}
	return nil
}

func (r *fakeLinkRepo) LinksByStatus(ctx context.Context, status domain.LinkStatus) ([]domain.MarketLink, error) {
	var out []domain.MarketLink
	for _, l := range r.links {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLinkRepo) UpdateStatus(ctx context.Context, linkID string, status domain.LinkStatus, reason string) error {
	for k, l := range r.links {
		if l.ID == linkID {
			l.Status, l.Reason = status, reason
			r.links[k] = l
		}
	}
	return nil
}

func (r *fakeLinkRepo) TouchLastSeen(ctx context.Context, linkIDs []string, seenAt time.Time) error {
	ids := make(map[string]bool, len(linkIDs))
	for _, id := range linkIDs {
		ids[id] = true
	}
	for k, l := range r.links {
		if ids[l.ID] {
			l.LastSeen = seenAt
			r.links[k] = l
		}
	}
	return nil
}

func (r *fakeLinkRepo) PruneStale(ctx context.Context, cutoff time.Time) (int, error) {
	n := 0
	for k, l := range r.links {
		if l.Status == domain.LinkSuggested && l.LastSeen.Before(cutoff) {
			delete(r.links, k)
			n++
		}
	}
	return n, nil
}

func (r *fakeLinkRepo) Close() error { return nil }

type fakeWatchRepo struct {
	entries []domain.WatchlistCandidate
}

func (r *fakeWatchRepo) ReplaceWatchlist(ctx context.Context, cands []domain.WatchlistCandidate) error {
	r.entries = cands
	return nil
}

func (r *fakeWatchRepo) Watchlist(ctx context.Context) ([]domain.WatchlistCandidate, error) {
	return r.entries, nil
}

func btcRecord(venue domain.Venue, id, title string) domain.MarketRecord {
	return domain.MarketRecord{
		ID: id, Venue: venue, Title: title, Status: "open",
		CloseTime: time.Now().Add(72 * time.Hour),
	}
}

func TestRun_EndToEndConfirmsAndSyncsWatchlist(t *testing.T) {
	kalshi := &fakeProvider{venue: domain.VenueKalshi, records: []domain.MarketRecord{
		btcRecord(domain.VenueKalshi, "k1", "Will Bitcoin close above $100,000 on January 15 2026?"),
	}}
	poly := &fakeProvider{venue: domain.VenuePolymarket, records: []domain.MarketRecord{
		btcRecord(domain.VenuePolymarket, "p1", "Bitcoin above $100k on January 15 2026"),
	}}
	repo := newFakeLinkRepo()
	watch := &fakeWatchRepo{}

	pl := New(DefaultConfig(), []ports.MarketProvider{kalshi, poly}, repo, watch, nil)
	report, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Failed())
	require.Len(t, report.Steps, 5)
	assert.NotEmpty(t, report.ID)

	// el par día-exacto con umbrales solapados se sugiere y auto-confirma
	confirmed, _ := repo.LinksByStatus(context.Background(), domain.LinkConfirmed)
	require.Len(t, confirmed, 1)
	assert.Equal(t, domain.TopicCrypto, confirmed[0].Topic)
	assert.GreaterOrEqual(t, confirmed[0].Score, 0.9)
	assert.Equal(t, domain.AlgoVersion, confirmed[0].AlgoVersion)

	// y entra en la watchlist con prioridad de confirmado, ambos lados
	require.Len(t, watch.entries, 2)
	for _, e := range watch.entries {
		assert.Equal(t, domain.PriorityConfirmed, e.Priority)
	}

	assert.Equal(t, 1, report.Steps[0].Counters["suggested"])
	assert.Equal(t, 1, report.Steps[1].Counters["confirmed"])
}

func TestRun_StepFailureIsIsolated(t *testing.T) {
	kalshi := &fakeProvider{venue: domain.VenueKalshi, err: errors.New("api caída")}
	poly := &fakeProvider{venue: domain.VenuePolymarket}
	repo := newFakeLinkRepo()
	watch := &fakeWatchRepo{}

	pl := New(DefaultConfig(), []ports.MarketProvider{kalshi, poly}, repo, watch, nil)
	report, err := pl.Run(context.Background())
	require.NoError(t, err)

	// suggest falló pero los otros cuatro pasos corrieron igual
	assert.True(t, report.Failed())
	require.Len(t, report.Steps, 5)
	assert.True(t, report.Steps[0].Failed())
	for _, s := range report.Steps[1:] {
		assert.False(t, s.Failed(), s.Name)
	}
}

func TestRun_NoLinksAcrossEntities(t *testing.T) {
	kalshi := &fakeProvider{venue: domain.VenueKalshi, records: []domain.MarketRecord{
		btcRecord(domain.VenueKalshi, "k1", "Bitcoin above $100k on January 15 2026"),
	}}
	poly := &fakeProvider{venue: domain.VenuePolymarket, records: []domain.MarketRecord{
		btcRecord(domain.VenuePolymarket, "p1", "Ethereum above $4k on January 15 2026"),
	}}
	repo := newFakeLinkRepo()

	pl := New(DefaultConfig(), []ports.MarketProvider{kalshi, poly}, repo, &fakeWatchRepo{}, nil)
	report, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Failed())
	assert.Equal(t, 0, report.Steps[0].Counters["suggested"])
}
