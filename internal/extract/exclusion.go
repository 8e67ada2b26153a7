package extract

import (
	"regexp"
	"strings"
)

// Pase de exclusión: títulos que nunca deben entrar al matching aunque
// puntúen alto. Props, parlays, futures de temporada y mercados live
// tienen semántica que no cruza bien entre venues — el filtrado de venue/
// status es cosa del storage, pero ESTAS reglas codifican semántica de
// matching y viven en el core.

var exclusionPhrases = []struct {
	phrase string
	reason string
}{
	{"parlay", "parlay"},
	{"same game", "parlay"},
	{"player prop", "prop"},
	{"first basket", "prop"},
	{"anytime scorer", "prop"},
	{"double double", "prop"},
	{"triple double", "prop"},
	{"season wins", "futures"},
	{"regular season", "futures"},
	{"1st half", "live"},
	{"first half", "live"},
	{"halftime", "live"},
	{"live odds", "live"},
	{"in game", "live"},
	{"next goal", "live"},
	{"next point", "live"},
}

// playerStatRe detecta la forma estructural "Nombre Apellido: 30+" de props.
var playerStatRe = regexp.MustCompile(`(?i)[a-z][a-z .'-]+:\s*\d+(\.\d+)?\+`)

// multiVsRe detecta listas multi-partido: "A vs B, C vs D".
var multiVsRe = regexp.MustCompile(`(?i)\bvs\.?\b.*,.*\bvs\.?\b`)

// CheckExclusions devuelve (reason, true) si el título debe quedar fuera
// del matching. El chequeo estructural va después de las frases literales.
func CheckExclusions(title string) (string, bool) {
	lower := strings.ToLower(title)
	for _, e := range exclusionPhrases {
		if strings.Contains(lower, e.phrase) {
			return e.reason, true
		}
	}
	if playerStatRe.MatchString(title) {
		return "prop", true
	}
	if multiVsRe.MatchString(title) {
		return "multi_event", true
	}
	return "", false
}
