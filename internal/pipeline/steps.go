package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/extract"
	"github.com/alejandrodnm/crosslink/internal/fingerprint"
	"github.com/alejandrodnm/crosslink/internal/match"
)

// stepSuggest hace fetch de ambos venues, puntúa el cross-product acotado
// por el candidate index, deduplica brackets y upserta links suggested.
func (p *Pipeline) stepSuggest(ctx context.Context) (map[string]int, error) {
	counters := map[string]int{}
	closeBefore := time.Now().Add(p.cfg.CloseWindow)
	builder := fingerprint.New()

	byVenue := make(map[domain.Venue][]match.Candidate)
	var venueOrder []domain.Venue
	for _, prov := range p.providers {
		records, err := prov.FetchOpenMarkets(ctx, closeBefore)
		if err != nil {
			return counters, fmt.Errorf("pipeline.stepSuggest: fetch %s: %w", prov.Venue(), err)
		}
		counters["fetched_"+string(prov.Venue())] = len(records)

		cands := make([]match.Candidate, 0, len(records))
		for _, rec := range records {
			p.titles[rec.Ref().String()] = rec.Title
			cands = append(cands, match.Candidate{
				Record:      rec,
				Signal:      extract.Signal(rec),
				Fingerprint: builder.BuildFromRecord(rec),
			})
		}
		byVenue[prov.Venue()] = cands
		venueOrder = append(venueOrder, prov.Venue())
	}

	var scored []domain.ScoredPair
	for i := 0; i < len(venueOrder); i++ {
		for j := i + 1; j < len(venueOrder); j++ {
			pairs := p.scoreVenuePair(byVenue[venueOrder[i]], byVenue[venueOrder[j]], counters)
			scored = append(scored, pairs...)
		}
	}

	kept, stats := match.ApplyBracketGrouping(scored, p.cfg.BracketStrategy, p.cfg.BracketLimits)
	counters["bracket_saved"] = stats.SavedCandidates
	counters["bracket_dropped_groups"] = stats.DroppedByGroupLimit
	counters["bracket_dropped_lines"] = stats.DroppedWithinGroups

	now := time.Now()
	links := make([]domain.MarketLink, 0, len(kept))
	for _, sp := range kept {
		link := domain.MarketLink{
			ID:          uuid.NewString(),
			Left:        sp.Left.Ref(),
			Right:       sp.Right.Ref(),
			Topic:       sp.Topic,
			Status:      domain.LinkSuggested,
			Score:       sp.Result.Score,
			Reason:      sp.Result.Reason,
			AlgoVersion: domain.AlgoVersion,
			CreatedAt:   now,
			UpdatedAt:   now,
			LastSeen:    now,
		}
		p.seen[link.PairKey()] = true
		links = append(links, link)
	}

	if err := p.links.UpsertLinks(ctx, links); err != nil {
		return counters, fmt.Errorf("pipeline.stepSuggest: upsert links: %w", err)
	}
	counters["suggested"] = len(links)
	return counters, nil
}

// scoreVenuePair puntúa los candidatos de left contra el índice de right.
func (p *Pipeline) scoreVenuePair(left, right []match.Candidate, counters map[string]int) []domain.ScoredPair {
	idx := match.BuildIndex(right)

	var out []domain.ScoredPair
	for _, lc := range left {
		if lc.Signal.Excluded || lc.Signal.Entity == "" {
			counters["skipped_unmatchable"]++
			continue
		}
		for _, rc := range idx.FindCandidates(lc, p.cfg.AllowAdjacent) {
			if lc.Signal.Topic != rc.Signal.Topic {
				continue
			}
			res, ok := p.scorer.Score(lc, rc)
			counters["scored_pairs"]++
			if !ok {
				counters["rejected_gates"]++
				continue
			}
			if res.Score < p.cfg.MinSuggestScore {
				counters["below_min_score"]++
				continue
			}
			out = append(out, domain.ScoredPair{
				Left:      lc.Record,
				Right:     rc.Record,
				Topic:     lc.Signal.Topic,
				Result:    res,
				Bracket:   match.BuildBracketKey(lc.Signal.Entity, lc.Signal.Date, lc.Signal.Comparator),
				Threshold: primaryThreshold(rc.Signal),
			})
		}
	}
	return out
}

func primaryThreshold(sig domain.Signal) float64 {
	if len(sig.Numbers) == 0 {
		return 0
	}
	return sig.Numbers[0].Value
}

// stepAutoConfirm pasa los links suggested por Safe-Rules y confirma los
// que superan todas.
func (p *Pipeline) stepAutoConfirm(ctx context.Context) (map[string]int, error) {
	counters := map[string]int{}

	suggested, err := p.links.LinksByStatus(ctx, domain.LinkSuggested)
	if err != nil {
		return counters, fmt.Errorf("pipeline.stepAutoConfirm: load suggested: %w", err)
	}
	counters["evaluated"] = len(suggested)

	for _, link := range suggested {
		res := p.safe.Evaluate(link)
		if !res.Pass {
			slog.Debug("safe rules failed",
				"link_id", link.ID, "pair", link.PairKey(), "rules", strings.Join(res.FailedRules, ","))
			continue
		}
		if err := p.links.UpdateStatus(ctx, link.ID, domain.LinkConfirmed, link.Reason); err != nil {
			return counters, fmt.Errorf("pipeline.stepAutoConfirm: confirm %s: %w", link.ID, err)
		}
		counters["confirmed"]++
	}
	return counters, nil
}

// stepAutoReject pasa los links suggested por Reject-Rules. Los títulos
// del ciclo alimentan el cross-check de tipos de mercado; si el paso
// suggest falló, van vacíos y la regla heurística simplemente no dispara.
func (p *Pipeline) stepAutoReject(ctx context.Context) (map[string]int, error) {
	counters := map[string]int{}
	now := time.Now()

	suggested, err := p.links.LinksByStatus(ctx, domain.LinkSuggested)
	if err != nil {
		return counters, fmt.Errorf("pipeline.stepAutoReject: load suggested: %w", err)
	}
	counters["evaluated"] = len(suggested)

	for _, link := range suggested {
		res := p.reject.Evaluate(link,
			p.titles[link.Left.String()], p.titles[link.Right.String()], now)
		if !res.Reject {
			continue
		}
		reason := "auto-reject: " + strings.Join(res.Rules, ",")
		if err := p.links.UpdateStatus(ctx, link.ID, domain.LinkRejected, reason); err != nil {
			return counters, fmt.Errorf("pipeline.stepAutoReject: reject %s: %w", link.ID, err)
		}
		counters["rejected"]++
	}
	return counters, nil
}

// stepWatchlistSync computa la watchlist deseada desde los links vivos y
// la sustituye entera en el repositorio.
func (p *Pipeline) stepWatchlistSync(ctx context.Context) (map[string]int, error) {
	counters := map[string]int{}

	confirmed, err := p.links.LinksByStatus(ctx, domain.LinkConfirmed)
	if err != nil {
		return counters, fmt.Errorf("pipeline.stepWatchlistSync: load confirmed: %w", err)
	}
	suggested, err := p.links.LinksByStatus(ctx, domain.LinkSuggested)
	if err != nil {
		return counters, fmt.Errorf("pipeline.stepWatchlistSync: load suggested: %w", err)
	}

	cands, stats := p.policy.Build(confirmed, suggested)
	if err := p.watch.ReplaceWatchlist(ctx, cands); err != nil {
		return counters, fmt.Errorf("pipeline.stepWatchlistSync: replace watchlist: %w", err)
	}

	counters["entries"] = stats.Entries
	counters["dropped_global_cap"] = stats.DroppedByGlobal
	counters["dropped_venue_cap"] = stats.DroppedByVenue
	counters["dropped_tier_cap"] = stats.DroppedByTierCap
	return counters, nil
}

// stepFreshnessCheck marca vivos los links cuyo par se volvió a ver en este
// ciclo y poda los sugeridos que llevan demasiado sin aparecer.
func (p *Pipeline) stepFreshnessCheck(ctx context.Context) (map[string]int, error) {
	counters := map[string]int{}
	now := time.Now()

	suggested, err := p.links.LinksByStatus(ctx, domain.LinkSuggested)
	if err != nil {
		return counters, fmt.Errorf("pipeline.stepFreshnessCheck: load suggested: %w", err)
	}

	var alive []string
	for _, link := range suggested {
		if p.seen[link.PairKey()] {
			alive = append(alive, link.ID)
		}
	}
	if len(alive) > 0 {
		if err := p.links.TouchLastSeen(ctx, alive, now); err != nil {
			return counters, fmt.Errorf("pipeline.stepFreshnessCheck: touch: %w", err)
		}
	}
	counters["touched"] = len(alive)

	pruned, err := p.links.PruneStale(ctx, now.Add(-p.cfg.StaleAfter))
	if err != nil {
		return counters, fmt.Errorf("pipeline.stepFreshnessCheck: prune: %w", err)
	}
	counters["pruned"] = pruned
	return counters, nil
}
