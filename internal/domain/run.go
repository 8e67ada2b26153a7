package domain

import "time"

// StepResult es el resultado de un paso del pipeline. El error viaja como
// string porque el reporte se persiste y se imprime, no se re-lanza.
type StepResult struct {
	Name     string
	Error    string
	Duration time.Duration
	Counters map[string]int
}

// Failed indica si el paso terminó en error.
func (s StepResult) Failed() bool { return s.Error != "" }

// RunReport es el resumen de un ciclo completo del pipeline.
type RunReport struct {
	ID          string
	AlgoVersion string
	StartedAt   time.Time
	FinishedAt  time.Time
	Steps       []StepResult
}

// Failed es true si al menos un paso falló. Éxito parcial se reporta como
// tal, nunca colapsado a fallo total.
func (r RunReport) Failed() bool {
	for _, s := range r.Steps {
		if s.Failed() {
			return true
		}
	}
	return false
}

// Duration devuelve la duración total del run.
func (r RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
