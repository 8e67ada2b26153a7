package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/crosslink/internal/domain"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el resumen del run en el modo configurado.
func (c *Console) Notify(_ context.Context, run domain.RunReport) error {
	if c.table {
		c.printFull(run)
	} else {
		c.printCompact(run)
	}
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(run domain.RunReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] run %s", run.FinishedAt.Format("15:04:05"), shortID(run.ID))
	if run.Failed() {
		sb.WriteString(" FAILED")
	}

	for _, s := range run.Steps {
		if s.Failed() {
			fmt.Fprintf(&sb, " | %s:ERR", s.Name)
			continue
		}
		fmt.Fprintf(&sb, " | %s:%s", s.Name, headlineCounter(s))
	}
	fmt.Fprintf(&sb, " (%s)", run.Duration().Round(time.Millisecond))

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla paso a paso con todos los contadores.
func (c *Console) printFull(run domain.RunReport) {
	status := "ok"
	if run.Failed() {
		status = "FAILED"
	}
	fmt.Fprintf(c.out, "\n[%s] run %s — %s — algo %s — %s\n",
		run.FinishedAt.Format("15:04:05"), shortID(run.ID), status,
		run.AlgoVersion, run.Duration().Round(time.Millisecond))

	table := tablewriter.NewWriter(c.out)
	table.Header("Step", "Status", "Duration", "Counters")

	for _, s := range run.Steps {
		st := "ok"
		if s.Failed() {
			st = "error: " + s.Error
		}
		table.Append(s.Name, st, s.Duration.String(), formatCounters(s.Counters))
	}
	table.Render()
}

// headlineCounter elige el contador más informativo del paso para el modo
// compacto.
func headlineCounter(s domain.StepResult) string {
	for _, key := range []string{"suggested", "confirmed", "rejected", "entries", "pruned"} {
		if v, ok := s.Counters[key]; ok {
			return fmt.Sprintf("%d", v)
		}
	}
	return "-"
}

// formatCounters serializa los contadores ordenados por clave.
func formatCounters(counters map[string]int) string {
	if len(counters) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(counters))
	for k := range counters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counters[k]))
	}
	return strings.Join(parts, " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
