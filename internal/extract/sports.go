package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/text"
)

// SportsSignal es la variante deportiva: partido programado con equipos,
// tipo de mercado y línea.
type SportsSignal struct {
	domain.Signal
	League     string // NBA, NFL, MLB, NHL
	TeamA      string // equipos ya normalizados; A/B sin orden semántico
	TeamB      string
	MarketType string // PARLAY | PROP | FUTURES | SPREAD | TOTAL | MONEYLINE
	Side       string // OVER | UNDER | "" para moneyline
	Line       float64
	EventTime  time.Time
}

// Tipos de mercado deportivo. El orden de prioridad de clasificación es
// contrato: PARLAY → PROP → FUTURES → SPREAD → TOTAL → MONEYLINE.
const (
	SportsParlay    = "PARLAY"
	SportsProp      = "PROP"
	SportsFutures   = "FUTURES"
	SportsSpread    = "SPREAD"
	SportsTotal     = "TOTAL"
	SportsMoneyline = "MONEYLINE"
)

var (
	vsRe     = regexp.MustCompile(`(?i)^(.*?)\s+vs\.?\s+(.*?)(?:[-–:(]|$)`)
	atRe     = regexp.MustCompile(`(?i)^(.*?)\s+@\s+(.*?)(?:[-–:(]|$)`)
	spreadRe = regexp.MustCompile(`(?:^|\s)([-+]\d+(?:\.\d+)?)(?:\s|$)`)
	totalRe  = regexp.MustCompile(`(?i)\b(over|under)\s+(\d+(?:\.\d+)?)`)
)

var leagueWords = []string{"nba", "nfl", "mlb", "nhl", "ncaa", "epl", "ufc"}

// Sports extrae señales de mercados de partidos programados.
type Sports struct{}

func NewSports() *Sports { return &Sports{} }

func (s *Sports) Topic() domain.Topic { return domain.TopicSports }

// Extract implementa el contrato compartido.
func (s *Sports) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return s.ExtractSports(title, closeTime, meta).Signal
}

// ExtractSports clasifica tipo de mercado, equipos, lado y línea.
// La entity de matching es el event key: liga + equipos ordenados + bucket
// de 30 minutos del horario del partido.
func (s *Sports) ExtractSports(title string, closeTime time.Time, meta map[string]string) SportsSignal {
	sig := SportsSignal{}
	sig.Topic = domain.TopicSports
	sig.EventTime = eventTime(closeTime, meta)
	sig.League = detectLeague(title, meta)

	sig.MarketType = classifyMarketType(title)
	// parlays y props quedan fuera del matching siempre
	switch sig.MarketType {
	case SportsParlay:
		sig.Excluded, sig.ExcludeReason = true, "parlay"
	case SportsProp:
		sig.Excluded, sig.ExcludeReason = true, "prop"
	}
	if !sig.Excluded {
		if reason, excluded := CheckExclusions(title); excluded {
			sig.Excluded, sig.ExcludeReason = true, reason
		}
	}

	sig.TeamA, sig.TeamB = extractTeams(title, meta)
	if sig.TeamA != "" && sig.TeamB != "" {
		sig.Entity = GenerateEventKey(sig.League, sig.TeamA, sig.TeamB, sig.EventTime)
	}

	sig.Side, sig.Line = extractSideAndLine(title, sig.MarketType)
	if sig.Line != 0 {
		sig.Numbers = []domain.Threshold{{Value: sig.Line}}
	}

	switch {
	case sig.Side == "OVER":
		sig.Comparator = domain.ComparatorGE
	case sig.Side == "UNDER":
		sig.Comparator = domain.ComparatorLE
	case sig.MarketType == SportsMoneyline || sig.MarketType == SportsFutures:
		sig.Comparator = domain.ComparatorWin
	default:
		sig.Comparator = domain.ComparatorUnknown
	}

	if !sig.EventTime.IsZero() {
		sig.Date = domain.ExtractedDate{
			Year:      sig.EventTime.UTC().Year(),
			Month:     int(sig.EventTime.UTC().Month()),
			Day:       sig.EventTime.UTC().Day(),
			Precision: domain.PrecisionDay,
		}
	}

	sig.Kind = sig.MarketType
	sig.Quality = domain.Quality{
		MissingEntity: sig.Entity == "",
		MissingDate:   sig.EventTime.IsZero(),
		MissingNumber: sig.MarketType == SportsTotal && sig.Line == 0,
		LowConfidence: sig.League == "",
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}

// classifyMarketType aplica la prioridad exacta de tipos. Esta cadena se
// reproduce tal cual: "LeBron: 30+ points over 220.5" debe ser PROP, no
// TOTAL, porque PROP va antes en la cadena.
func classifyMarketType(title string) string {
	lower := " " + strings.ToLower(title) + " "

	if strings.Contains(lower, "parlay") || strings.Contains(lower, "same game") {
		return SportsParlay
	}
	if strings.Contains(lower, "prop") || playerStatRe.MatchString(title) ||
		strings.Contains(lower, "first basket") || strings.Contains(lower, "anytime") {
		return SportsProp
	}
	if strings.Contains(lower, "championship") || strings.Contains(lower, "to win the") ||
		strings.Contains(lower, " mvp ") || strings.Contains(lower, "finals") ||
		strings.Contains(lower, "season wins") {
		return SportsFutures
	}
	if strings.Contains(lower, "spread") || strings.Contains(lower, "cover") ||
		spreadRe.MatchString(title) {
		return SportsSpread
	}
	if strings.Contains(lower, "over") || strings.Contains(lower, "under") ||
		strings.Contains(lower, "total") || strings.Contains(lower, " o/u ") {
		return SportsTotal
	}
	return SportsMoneyline
}

// extractTeams saca los dos equipos de "A vs B" / "A @ B", normalizados.
// La metadata del venue (home_team/away_team) tiene prioridad sobre el título.
func extractTeams(title string, meta map[string]string) (string, string) {
	if meta != nil && meta["home_team"] != "" && meta["away_team"] != "" {
		return text.NormalizeName(meta["home_team"]), text.NormalizeName(meta["away_team"])
	}

	for _, re := range []*regexp.Regexp{vsRe, atRe} {
		if m := re.FindStringSubmatch(title); m != nil {
			a := text.NormalizeName(stripLeague(m[1]))
			b := text.NormalizeName(stripLeague(m[2]))
			if a != "" && b != "" {
				return a, b
			}
		}
	}
	return "", ""
}

// stripLeague quita el prefijo de liga del nombre: "NBA: Lakers" → "Lakers".
func stripLeague(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, lg := range leagueWords {
		if strings.HasPrefix(lower, lg+":") || strings.HasPrefix(lower, lg+" ") {
			return strings.TrimSpace(s[len(lg)+1:])
		}
	}
	return s
}

func detectLeague(title string, meta map[string]string) string {
	if meta != nil && meta["league"] != "" {
		return strings.ToUpper(meta["league"])
	}
	lower := " " + strings.ToLower(title) + " "
	for _, lg := range leagueWords {
		if strings.Contains(lower, " "+lg+" ") || strings.Contains(lower, " "+lg+":") {
			return strings.ToUpper(lg)
		}
	}
	return ""
}

// extractSideAndLine devuelve OVER/UNDER y la línea para totals, o la
// línea con signo para spreads.
func extractSideAndLine(title, marketType string) (string, float64) {
	switch marketType {
	case SportsTotal:
		if m := totalRe.FindStringSubmatch(title); m != nil {
			line, _ := strconv.ParseFloat(m[2], 64)
			return strings.ToUpper(m[1]), line
		}
	case SportsSpread:
		if m := spreadRe.FindStringSubmatch(title); m != nil {
			line, _ := strconv.ParseFloat(m[1], 64)
			return "", line
		}
	}
	return "", 0
}

// eventTime toma el horario del partido de la metadata si el venue lo da,
// o del close time como aproximación (los venues cierran el mercado al
// arrancar el partido).
func eventTime(closeTime time.Time, meta map[string]string) time.Time {
	if meta != nil && meta["event_time"] != "" {
		if t, err := time.Parse(time.RFC3339, meta["event_time"]); err == nil {
			return t
		}
	}
	return closeTime
}

// GenerateEventKey construye la clave canónica de un partido. Invariante
// al orden de los equipos: (liga, A, B, t) y (liga, B, A, t) producen la
// misma clave.
func GenerateEventKey(league, teamA, teamB string, eventTime time.Time) string {
	teams := []string{text.NormalizeName(teamA), text.NormalizeName(teamB)}
	sort.Strings(teams)
	return strings.ToUpper(league) + "|" + teams[0] + "|" + teams[1] + "|" + GenerateTimeBucket(eventTime)
}

// GenerateTimeBucket trunca el horario a buckets de 30 minutos en UTC:
// 20:15 → "...T20:00", 20:30 → "...T20:30". Dos buckets consecutivos se
// consideran adyacentes en el candidate index.
func GenerateTimeBucket(t time.Time) string {
	return t.UTC().Truncate(30 * time.Minute).Format("2006-01-02T15:04")
}
