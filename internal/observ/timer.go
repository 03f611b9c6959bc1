// Package observ carries the small timing instrumentation behind the
// CLI --timings flag.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// phase is one timed pipeline step with an optional result note.
type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// Timer собирает длительности фаз пайплайна в порядке запуска.
type Timer struct {
	phases []phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a phase and returns its handle for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return len(t.phases) - 1
}

// End stops the phase and attaches a note shown next to its duration.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.dur = time.Since(p.start)
	p.note = note
}

// Summary renders the per-phase durations plus a total, one line each.
func (t *Timer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		fmt.Fprintf(&b, "  %-20s %7.2f ms", p.name, millis(p.dur))
		if p.note != "" {
			b.WriteString("  // " + p.note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-20s %7.2f ms\n", "total", millis(total))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
