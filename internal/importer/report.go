package importer

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Failure is a record the writer could not persist.
type Failure struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Report is the outcome of one import run.
type Report struct {
	RunID       string         `json:"run_id"`
	Entity      string         `json:"entity"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Processed   int            `json:"processed"`
	Accepted    int            `json:"accepted"`
	Skipped     int            `json:"skipped"`
	SkipReasons map[string]int `json:"skip_reasons"`
	Inserted    int            `json:"inserted"`
	Updated     int            `json:"updated"`
	Failed      int            `json:"failed"`
	Failures    []Failure      `json:"failures,omitempty"`
	Outputs     []string       `json:"outputs,omitempty"`
}

func NewReport(entity string) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		Entity:      entity,
		StartedAt:   time.Now().UTC(),
		SkipReasons: make(map[string]int),
	}
}

// Skip counts a rejected record under reason.
func (r *Report) Skip(reason error) {
	r.Skipped++
	r.SkipReasons[reason.Error()]++
}

// SkipN counts n records rejected for the same reason.
func (r *Report) SkipN(reason error, n int) {
	if n == 0 {
		return
	}
	r.Skipped += n
	r.SkipReasons[reason.Error()] += n
}

func (r *Report) Fail(key string, err error) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{Key: key, Message: err.Error()})
}

func (r *Report) Finish() {
	r.FinishedAt = time.Now().UTC()
}

func (r *Report) Written() int {
	return r.Inserted + r.Updated
}

// Print writes the human-readable run summary.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "== %s import (run %s) ==\n", r.Entity, r.RunID)
	fmt.Fprintf(w, "processed: %d\n", r.Processed)
	fmt.Fprintf(w, "accepted:  %d\n", r.Accepted)
	fmt.Fprintf(w, "skipped:   %d\n", r.Skipped)

	reasons := make([]string, 0, len(r.SkipReasons))
	for reason := range r.SkipReasons {
		reasons = append(reasons, reason)
	}
	slices.Sort(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(w, "  %-28s %d\n", reason+":", r.SkipReasons[reason])
	}

	fmt.Fprintf(w, "inserted:  %d\n", r.Inserted)
	fmt.Fprintf(w, "updated:   %d\n", r.Updated)
	fmt.Fprintf(w, "failed:    %d\n", r.Failed)
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Key, f.Message)
	}
	for _, out := range r.Outputs {
		fmt.Fprintf(w, "output:    %s\n", out)
	}
	if !r.FinishedAt.IsZero() {
		fmt.Fprintf(w, "duration:  %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}
}

// LogValue implements slog.LogValuer.
func (r *Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", r.RunID),
		slog.String("entity", r.Entity),
		slog.Int("processed", r.Processed),
		slog.Int("accepted", r.Accepted),
		slog.Int("skipped", r.Skipped),
		slog.Int("inserted", r.Inserted),
		slog.Int("updated", r.Updated),
		slog.Int("failed", r.Failed),
	)
}
