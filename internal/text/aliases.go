package text

import "strings"

// Tablas estáticas de nombres canónicos, construidas una vez al arrancar.
// Los venues escriben el mismo equipo de formas distintas ("LA Lakers",
// "Lakers", "Los Angeles Lakers") — aquí se resuelven todas a una sola.

// teamAliases mapea alias limpio → nombre canónico. Incluye el propio
// nombre canónico para que NormalizeName sea idempotente.
var teamAliases = map[string]string{
	// NBA
	"los angeles lakers":     "los angeles lakers",
	"la lakers":              "los angeles lakers",
	"lakers":                 "los angeles lakers",
	"los angeles clippers":   "los angeles clippers",
	"la clippers":            "los angeles clippers",
	"clippers":               "los angeles clippers",
	"boston celtics":         "boston celtics",
	"celtics":                "boston celtics",
	"golden state warriors":  "golden state warriors",
	"gs warriors":            "golden state warriors",
	"warriors":               "golden state warriors",
	"new york knicks":        "new york knicks",
	"ny knicks":              "new york knicks",
	"knicks":                 "new york knicks",
	"brooklyn nets":          "brooklyn nets",
	"nets":                   "brooklyn nets",
	"milwaukee bucks":        "milwaukee bucks",
	"bucks":                  "milwaukee bucks",
	"denver nuggets":         "denver nuggets",
	"nuggets":                "denver nuggets",
	"phoenix suns":           "phoenix suns",
	"suns":                   "phoenix suns",
	"dallas mavericks":       "dallas mavericks",
	"mavericks":              "dallas mavericks",
	"mavs":                   "dallas mavericks",
	"miami heat":             "miami heat",
	"heat":                   "miami heat",
	"philadelphia 76ers":     "philadelphia 76ers",
	"76ers":                  "philadelphia 76ers",
	"sixers":                 "philadelphia 76ers",
	"oklahoma city thunder":  "oklahoma city thunder",
	"okc thunder":            "oklahoma city thunder",
	"thunder":                "oklahoma city thunder",
	"minnesota timberwolves": "minnesota timberwolves",
	"timberwolves":           "minnesota timberwolves",
	"wolves":                 "minnesota timberwolves",
	"cleveland cavaliers":    "cleveland cavaliers",
	"cavaliers":              "cleveland cavaliers",
	"cavs":                   "cleveland cavaliers",

	// NFL
	"kansas city chiefs":   "kansas city chiefs",
	"kc chiefs":            "kansas city chiefs",
	"chiefs":               "kansas city chiefs",
	"san francisco 49ers":  "san francisco 49ers",
	"sf 49ers":             "san francisco 49ers",
	"49ers":                "san francisco 49ers",
	"niners":               "san francisco 49ers",
	"buffalo bills":        "buffalo bills",
	"bills":                "buffalo bills",
	"philadelphia eagles":  "philadelphia eagles",
	"eagles":               "philadelphia eagles",
	"dallas cowboys":       "dallas cowboys",
	"cowboys":              "dallas cowboys",
	"green bay packers":    "green bay packers",
	"gb packers":           "green bay packers",
	"packers":              "green bay packers",
	"baltimore ravens":     "baltimore ravens",
	"ravens":               "baltimore ravens",
	"detroit lions":        "detroit lions",
	"lions":                "detroit lions",
	"new york giants":      "new york giants",
	"ny giants":            "new york giants",
	"giants":               "new york giants",
	"new england patriots": "new england patriots",
	"ne patriots":          "new england patriots",
	"patriots":             "new england patriots",

	// MLB
	"new york yankees":    "new york yankees",
	"ny yankees":          "new york yankees",
	"yankees":             "new york yankees",
	"los angeles dodgers": "los angeles dodgers",
	"la dodgers":          "los angeles dodgers",
	"dodgers":             "los angeles dodgers",
	"boston red sox":      "boston red sox",
	"red sox":             "boston red sox",
	"chicago cubs":        "chicago cubs",
	"cubs":                "chicago cubs",
	"houston astros":      "houston astros",
	"astros":              "houston astros",
	"atlanta braves":      "atlanta braves",
	"braves":              "atlanta braves",
}

// cityAbbreviations expande la abreviatura inicial de ciudad/región.
// Solo se aplica como segundo paso cuando el lookup directo falla.
var cityAbbreviations = map[string]string{
	"la":  "los angeles",
	"ny":  "new york",
	"sf":  "san francisco",
	"kc":  "kansas city",
	"gb":  "green bay",
	"ne":  "new england",
	"okc": "oklahoma city",
	"phi": "philadelphia",
	"bos": "boston",
	"chi": "chicago",
	"dal": "dallas",
	"den": "denver",
	"mia": "miami",
}

// NormalizeName resuelve un nombre propio a su forma canónica en dos pasos:
//
//  1. lookup directo del string limpio contra la tabla de aliases;
//  2. si falla, expandir la abreviatura inicial de ciudad y reintentar.
//
// Si nada resuelve, devuelve el string limpio tal cual. Idempotente:
// NormalizeName(NormalizeName(x)) == NormalizeName(x) para todo x.
func NormalizeName(s string) string {
	clean := Clean(s)
	if canonical, ok := teamAliases[clean]; ok {
		return canonical
	}

	tokens := strings.Fields(clean)
	if len(tokens) > 1 {
		if expansion, ok := cityAbbreviations[tokens[0]]; ok {
			expanded := expansion + " " + strings.Join(tokens[1:], " ")
			if canonical, ok := teamAliases[expanded]; ok {
				return canonical
			}
		}
	}

	return clean
}

// IsKnownTeam devuelve true si el nombre resuelve a un equipo de la tabla.
func IsKnownTeam(s string) bool {
	_, ok := teamAliases[NormalizeName(s)]
	return ok
}
