package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del matcher.
type Config struct {
	Matcher   MatcherConfig   `yaml:"matcher"`
	Rules     RulesConfig     `yaml:"rules"`
	Watchlist WatchlistConfig `yaml:"watchlist"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// MatcherConfig controla el pipeline de matching.
type MatcherConfig struct {
	IntervalMinutes  int     `yaml:"interval_minutes"`
	CloseWindowDays  int     `yaml:"close_window_days"`
	AllowAdjacent    *bool   `yaml:"allow_adjacent"`
	MinSuggestScore  float64 `yaml:"min_suggest_score"`
	BracketStrategy  string  `yaml:"bracket_strategy"` // best_score | central_threshold
	MaxGroupsPerLeft int     `yaml:"max_groups_per_left"`
	MaxLinesPerGroup int     `yaml:"max_lines_per_group"`
	StaleAfterDays   int     `yaml:"stale_after_days"`
}

// RulesConfig controla los umbrales de los rule engines. Las claves de los
// mapas son topics; los topics no listados usan los defaults del engine.
type RulesConfig struct {
	SafeMinScore    map[string]float64 `yaml:"safe_min_score"`
	SafeTextFloor   float64            `yaml:"safe_text_floor"`
	RejectFloor     map[string]float64 `yaml:"reject_floor"`
	RejectTextFloor float64            `yaml:"reject_text_floor"`
	RejectMinAgeH   int                `yaml:"reject_min_age_hours"`
}

// WatchlistConfig controla la política de watchlist.
type WatchlistConfig struct {
	TopSuggestedScore float64 `yaml:"top_suggested_score"`
	TopSuggestedCap   int     `yaml:"top_suggested_cap"`
	MaxEntries        int     `yaml:"max_entries"`
	MaxPerVenue       int     `yaml:"max_per_venue"`
}

// APIConfig contiene los base URLs de las APIs de los venues.
type APIConfig struct {
	KalshiBase string `yaml:"kalshi_base"`
	GammaBase  string `yaml:"gamma_base"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si
// existe. Los valores del entorno sobreescriben los del YAML.
func Load(path string) (*Config, error) {
	// cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// MatchInterval devuelve el intervalo entre runs como time.Duration.
func (c *Config) MatchInterval() time.Duration {
	return time.Duration(c.Matcher.IntervalMinutes) * time.Minute
}

// CloseWindow devuelve la ventana de ingesta como time.Duration.
func (c *Config) CloseWindow() time.Duration {
	return time.Duration(c.Matcher.CloseWindowDays) * 24 * time.Hour
}

// StaleAfter devuelve el corte de poda como time.Duration.
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Matcher.StaleAfterDays) * 24 * time.Hour
}

// applyEnvOverrides sobreescribe valores con variables de entorno.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CROSSLINK_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("KALSHI_BASE"); v != "" {
		cfg.API.KalshiBase = v
	}
	if v := os.Getenv("GAMMA_BASE"); v != "" {
		cfg.API.GammaBase = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Matcher.IntervalMinutes <= 0 {
		cfg.Matcher.IntervalMinutes = 15
	}
	if cfg.Matcher.CloseWindowDays <= 0 {
		cfg.Matcher.CloseWindowDays = 45
	}
	if cfg.Matcher.AllowAdjacent == nil {
		t := true
		cfg.Matcher.AllowAdjacent = &t
	}
	if cfg.Matcher.MinSuggestScore <= 0 {
		cfg.Matcher.MinSuggestScore = 0.55
	}
	if cfg.Matcher.BracketStrategy == "" {
		cfg.Matcher.BracketStrategy = "best_score"
	}
	if cfg.Matcher.MaxGroupsPerLeft <= 0 {
		cfg.Matcher.MaxGroupsPerLeft = 3
	}
	if cfg.Matcher.MaxLinesPerGroup <= 0 {
		cfg.Matcher.MaxLinesPerGroup = 2
	}
	if cfg.Matcher.StaleAfterDays <= 0 {
		cfg.Matcher.StaleAfterDays = 7
	}
	if cfg.Rules.SafeTextFloor <= 0 {
		cfg.Rules.SafeTextFloor = 0.15
	}
	if cfg.Rules.RejectTextFloor <= 0 {
		cfg.Rules.RejectTextFloor = 0.05
	}
	if cfg.Rules.RejectMinAgeH <= 0 {
		cfg.Rules.RejectMinAgeH = 24
	}
	if cfg.Watchlist.TopSuggestedScore <= 0 {
		cfg.Watchlist.TopSuggestedScore = 0.75
	}
	if cfg.Watchlist.TopSuggestedCap <= 0 {
		cfg.Watchlist.TopSuggestedCap = 50
	}
	if cfg.Watchlist.MaxEntries <= 0 {
		cfg.Watchlist.MaxEntries = 200
	}
	if cfg.Watchlist.MaxPerVenue <= 0 {
		cfg.Watchlist.MaxPerVenue = 120
	}
	if cfg.API.KalshiBase == "" {
		cfg.API.KalshiBase = "https://api.elections.kalshi.com/trade-api/v2"
	}
	if cfg.API.GammaBase == "" {
		cfg.API.GammaBase = "https://gamma-api.polymarket.com"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "crosslink.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
