package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/devboost-pro/extcheck/internal/checklist"
)

// JSONReport is the machine-readable form of a run.
type JSONReport struct {
	Project    string            `json:"project"`
	Root       string            `json:"root"`
	Status     string            `json:"status"`
	Ready      bool              `json:"ready"`
	Summary    checklist.Summary `json:"summary"`
	Results    []JSONResult      `json:"results"`
	FinishedAt time.Time         `json:"finished_at"`
}

// JSONResult is one check in a JSONReport.
type JSONResult struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Status     checklist.Status `json:"status"`
	Passed     bool             `json:"passed"`
	Message    string           `json:"message"`
	Details    []string         `json:"details,omitempty"`
	Code       string           `json:"code,omitempty"`
	DurationMS float64          `json:"duration_ms"`
}

// Status values of a JSONReport.
const (
	StatusReady    = "production_ready"
	StatusNotReady = "needs_fixes"
)

// NewJSONReport converts a run into its JSON form.
func NewJSONReport(project, root string, rep checklist.Report, finishedAt time.Time) JSONReport {
	out := JSONReport{
		Project:    project,
		Root:       root,
		Status:     StatusNotReady,
		Ready:      rep.Ready(),
		Summary:    rep.Summary,
		Results:    make([]JSONResult, 0, len(rep.Results)),
		FinishedAt: finishedAt.UTC(),
	}
	if out.Ready {
		out.Status = StatusReady
	}

	for _, r := range rep.Results {
		out.Results = append(out.Results, JSONResult{
			ID:         r.ID,
			Name:       r.Name,
			Status:     r.Status,
			Passed:     r.Passed,
			Message:    r.Message,
			Details:    r.Details,
			Code:       r.Code,
			DurationMS: float64(r.Duration) / float64(time.Millisecond),
		})
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep JSONReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
