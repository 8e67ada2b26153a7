package extract

import (
	"strings"
	"time"

	"github.com/alejandrodnm/crosslink/internal/domain"
	"github.com/alejandrodnm/crosslink/internal/text"
)

// ElectionsSignal cubre mercados electorales. La entity es la carrera
// (tipo + región + año); el candidato va aparte porque dos venues listan
// la misma carrera con candidatos distintos como mercados distintos.
type ElectionsSignal struct {
	domain.Signal
	Race      string // PRESIDENTIAL, SENATE, HOUSE, GOVERNOR, PRIMARY, REFERENDUM
	Candidate string
	Region    string
}

// raceKinds en orden de prioridad: PRIMARY antes que PRESIDENTIAL para que
// "republican presidential primary" no clasifique como general.
var raceKinds = []struct {
	name  string
	words []string
}{
	{"PRIMARY", []string{"primary", "nominee", "nomination"}},
	{"PRESIDENTIAL", []string{"presidential", "president", "white house", "electoral college"}},
	{"SENATE", []string{"senate", "senator"}},
	{"HOUSE", []string{"house of representatives", "house seat", "congressional"}},
	{"GOVERNOR", []string{"governor", "gubernatorial"}},
	{"REFERENDUM", []string{"referendum", "ballot measure", "proposition"}},
}

var electionRegions = []string{
	"us", "united states", "uk", "france", "germany", "canada", "mexico",
	"california", "texas", "florida", "new york", "pennsylvania", "georgia",
	"arizona", "michigan", "wisconsin", "nevada", "ohio",
}

type Elections struct {
	vocab Vocab
}

func NewElections() *Elections {
	v := DefaultVocab()
	v.WinWords = append([]string{"elected", "carry", "carries", "flips"}, v.WinWords...)
	v.AllowBetween = false // rangos numéricos no aplican a carreras
	return &Elections{vocab: v}
}

func (e *Elections) Topic() domain.Topic { return domain.TopicElections }

func (e *Elections) Extract(title string, closeTime time.Time, meta map[string]string) domain.Signal {
	return e.ExtractElections(title, closeTime, meta).Signal
}

func (e *Elections) ExtractElections(title string, closeTime time.Time, meta map[string]string) ElectionsSignal {
	lower := " " + strings.ToLower(title) + " "

	sig := ElectionsSignal{}
	sig.Topic = domain.TopicElections

	if reason, excluded := CheckExclusions(title); excluded {
		sig.Excluded, sig.ExcludeReason = true, reason
	}

	for _, race := range raceKinds {
		for _, w := range race.words {
			if strings.Contains(lower, w) {
				sig.Race = race.name
				break
			}
		}
		if sig.Race != "" {
			break
		}
	}

	for _, region := range electionRegions {
		if strings.Contains(lower, " "+region+" ") {
			sig.Region = region
			break
		}
	}

	if meta != nil && meta["candidate"] != "" {
		sig.Candidate = text.NormalizeName(meta["candidate"])
	}

	sig.Date = ParseDate(title, closeTime)
	sig.Comparator = ParseComparator(title, e.vocab)
	// mercados de % de voto traen números; los de winner no
	sig.Numbers = ExtractNumbers(title)

	if sig.Race != "" {
		parts := []string{sig.Race}
		if sig.Region != "" {
			parts = append(parts, strings.ReplaceAll(sig.Region, " ", "_"))
		}
		if sig.Date.Year > 0 {
			parts = append(parts, sig.Date.Key()[:4])
		}
		sig.Entity = strings.ToUpper(strings.Join(parts, ":"))
		if sig.Candidate != "" {
			sig.Entity += ":" + strings.ReplaceAll(sig.Candidate, " ", "_")
		}
	}
	sig.Kind = sig.Race

	sig.Quality = domain.Quality{
		MissingEntity: sig.Entity == "",
		MissingDate:   sig.Date.IsZero(),
		// winner markets legítimamente no llevan número
		MissingNumber: false,
		LowConfidence: sig.Region == "",
	}
	sig.Confidence = sig.Quality.Confidence()
	return sig
}
