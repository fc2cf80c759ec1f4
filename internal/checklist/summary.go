package checklist

// Verdict classifies a finished run.
type Verdict string

const (
	// VerdictReady means every check passed.
	VerdictReady Verdict = "ready"
	// VerdictMostlyReady means at least MostlyReadyPercent of checks passed.
	VerdictMostlyReady Verdict = "mostly_ready"
	// VerdictNeedsWork means fewer checks passed.
	VerdictNeedsWork Verdict = "needs_work"
)

// MostlyReadyPercent is the readiness at or above which a failing run is
// reported as mostly ready.
const MostlyReadyPercent = 80.0

// Summary aggregates the results of a run.
type Summary struct {
	Passed     int     `json:"passed"`
	Failed     int     `json:"failed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Verdict    Verdict `json:"verdict"`
}

// Ready reports whether the run passed every check. An empty run is not ready.
func (s Summary) Ready() bool {
	return s.Total > 0 && s.Passed == s.Total
}

// Summarize computes the summary for results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed

	if s.Total > 0 {
		s.Percentage = float64(s.Passed) / float64(s.Total) * 100
	}

	switch {
	case s.Ready():
		s.Verdict = VerdictReady
	case s.Total > 0 && s.Percentage >= MostlyReadyPercent:
		s.Verdict = VerdictMostlyReady
	default:
		s.Verdict = VerdictNeedsWork
	}
	return s
}

// Report is the ordered result list of a run plus its summary.
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
}

// Ready reports whether every check in the report passed.
func (r Report) Ready() bool {
	return r.Summary.Ready()
}
