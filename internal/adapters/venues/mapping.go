package venues

import (
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Los extractores leen claves concretas de Metadata: "venue" y "ticker"
// para las tablas de tickers por venue, "category" para clasificar topic,
// "league"/"home_team"/"away_team"/"event_time" para deportes. Mapear aquí
// es lo que hace que esa metadata exista aguas abajo.

// mapKalshiMarkets convierte los DTOs de Kalshi a MarketRecord.
func mapKalshiMarkets(raw []kalshiMarket) []domain.MarketRecord {
	records := make([]domain.MarketRecord, 0, len(raw))
	for _, r := range raw {
		records = append(records, mapKalshiMarket(r))
	}
	return records
}

func mapKalshiMarket(r kalshiMarket) domain.MarketRecord {
	title := r.Title
	if r.Subtitle != "" {
		title += " " + r.Subtitle
	}
	meta := map[string]string{
		"venue":  string(domain.VenueKalshi),
		"ticker": r.Ticker,
	}
	if r.SeriesTicker != "" {
		meta["series"] = r.SeriesTicker
	}
	if r.Category != "" {
		meta["category"] = r.Category
	}
	return domain.MarketRecord{
		ID:        r.Ticker,
		Venue:     domain.VenueKalshi,
		Title:     title,
		Status:    mapStatus(r.Status),
		CloseTime: r.CloseTime,
		Metadata:  meta,
	}
}

// mapGammaMarket convierte un DTO de Gamma a MarketRecord. Devuelve false
// si el mercado está fuera de la ventana de cierre o no es matcheable.
func mapGammaMarket(gm gammaMarket, closeBefore time.Time) (domain.MarketRecord, bool) {
	if gm.Closed || !gm.Active || gm.Question == "" {
		return domain.MarketRecord{}, false
	}

	closeTime := parseGammaDate(gm.EndDate)
	if !closeTime.IsZero() && closeTime.After(closeBefore) {
		return domain.MarketRecord{}, false
	}

	meta := map[string]string{
		"venue":  string(domain.VenuePolymarket),
		"ticker": gm.Slug,
	}
	if gm.Category != "" {
		meta["category"] = gm.Category
	}
	return domain.MarketRecord{
		ID:        gm.ID,
		Venue:     domain.VenuePolymarket,
		Title:     gm.Question,
		Status:    "open",
		CloseTime: closeTime,
		Metadata:  meta,
	}, true
}

// parseGammaDate tolera los dos formatos de fecha que Gamma devuelve.
func parseGammaDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// mapStatus normaliza el status de Kalshi al vocabulario del core.
func mapStatus(s string) string {
	switch s {
	case "active", "open":
		return "open"
	case "closed":
		return "closed"
	case "settled", "finalized":
		return "settled"
	default:
		return s
	}
}
