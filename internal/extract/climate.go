package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/text"
)

// ClimateSignal cubre mercados de clima: temperatura máxima en una ciudad,
// huracanes por temporada, récords globales.
type ClimateSignal struct {
	domain.Signal
	Phenomenon string // TEMPERATURE, HURRICANE, GLOBAL_TEMP, SNOWFALL, RAINFALL
	Region     string
}

var climatePhenomena = []struct {
	name  string
	words []string
}{
	{"GLOBAL_TEMP", []string{"warmest year", "hottest year", "global temperature", "global average"}},
	{"HURRICANE", []string{"hurricane", "named storm", "tropical storm"}},
	{"SNOWFALL", []string{"snowfall", "snow ", "inches of snow"}},
	{"RAINFALL", []string{"rainfall", "precipitation"}},
	{"TEMPERATURE", []string{"temperature", "high temp", "degrees", "heat wave"}},
}

var climateRegions = []string{
	"nyc", "new york", "los angeles", "chicago", "miami", "austin",
	"denver", "phoenix", "seattle", "atlantic", "gulf coast", "florida",
}

type Climate struct {
	vocab Vocab
}

func NewClimate() *Climate {
	v := DefaultVocab()
	// "reach" en clima es GE igual que en precios ("reach 100 degrees")
	return &Climate{vocab: v}
}

func (c *Climate) Topic() domain.Topic { return domain.TopicClimate }

func (c *Climate) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return c.ExtractClimate(title, closeTime, meta).Signal
}

func (c *Climate) ExtractClimate(title string, closeTime time.Time, meta map[string]string) ClimateSignal {
	lower := " " + strings.ToLower(title) + " "

	sig := ClimateSignal{}
	sig.Topic = domain.TopicClimate

	if reason, excluded := CheckExclusions(title); excluded {
		sig.Excluded, sig.ExcludeReason = true, reason
	}

	for _, ph := range climatePhenomena {
		for _, w := range ph.words {
			if strings.Contains(lower, w) {
				sig.Phenomenon = ph.name
				break
			}
		}
		if sig.Phenomenon != "" {
			break
		}
	}

	for _, region := range climateRegions {
		if strings.Contains(lower, region) {
			sig.Region = text.NormalizeName(region)
			break
		}
	}

	// entity compuesta: fenómeno + región, para que "NYC high temp" y
	// "Chicago high temp" nunca sean candidatos entre sí
	switch {
	case sig.Phenomenon != "" && sig.Region != "":
		sig.Entity = sig.Phenomenon + ":" + strings.ReplaceAll(sig.Region, " ", "_")
	case sig.Phenomenon != "":
		sig.Entity = sig.Phenomenon
	}
	sig.Kind = sig.Phenomenon

	sig.Numbers = ExtractNumbers(title)
	sig.Comparator = ParseComparator(title, c.vocab)
	sig.Date = ParseDate(title, closeTime)

	sig.Quality = domain.Quality{
		MissingEntity: sig.Entity == "",
		MissingDate:   sig.Date.IsZero(),
		MissingNumber: len(sig.Numbers) == 0,
		LowConfidence: sig.Region == "",
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}
