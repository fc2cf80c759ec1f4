// Package report renders checklist runs as a console report or as JSON.
package report

import (
	"fmt"
	"io"

	"github.com/devboost-pro/extcheck/internal/checklist"
	"github.com/devboost-pro/extcheck/internal/output"
)

// ruleWidth is the width of the "=" separator lines.
const ruleWidth = 60

// TextRenderer prints the console report. It is a checklist.Observer, so
// per-check lines appear while the checks run.
type TextRenderer struct {
	w       *output.Writer
	project string
}

// NewTextRenderer creates a renderer writing to out for the named project.
func NewTextRenderer(out io.Writer, project string, color bool) *TextRenderer {
	return &TextRenderer{
		w:       output.New(out, output.WithColor(color)),
		project: project,
	}
}

// Header prints the report banner.
func (r *TextRenderer) Header() {
	r.w.Heading(r.project + " VS Code Extension - Comprehensive Test Suite")
	r.w.Rule(ruleWidth)
}

// CheckStarted implements checklist.Observer.
func (r *TextRenderer) CheckStarted(c checklist.Check) {
	r.w.Newline()
	r.w.Heading(c.Name + ":")
	if c.Subject != "" {
		r.w.Linef("Testing %s...", c.Subject)
	}
}

// CheckFinished implements checklist.Observer.
func (r *TextRenderer) CheckFinished(res checklist.Result) {
	switch res.Status {
	case checklist.StatusPass:
		r.w.Tagged("  ", "OK", output.ToneSuccess, res.Message)
	case checklist.StatusSkip:
		r.w.Tagged("  ", "SKIP", output.ToneWarning, res.Message)
	case checklist.StatusCrash:
		r.w.Tagged("  ", "CRASH", output.ToneError, res.Message)
	default:
		r.w.Tagged("  ", "FAIL", output.ToneError, res.Message)
	}
}

// Summary prints the result table, readiness and verdict.
func (r *TextRenderer) Summary(rep checklist.Report) {
	r.w.Newline()
	r.w.Rule(ruleWidth)
	r.w.Heading("TEST RESULTS SUMMARY:")
	r.w.Rule(ruleWidth)

	for _, res := range rep.Results {
		if res.Passed {
			r.w.Tagged("", "PASS", output.ToneSuccess, res.Name)
		} else {
			r.w.Tagged("", "FAIL", output.ToneError, res.Name)
		}
	}

	s := rep.Summary
	r.w.Newline()
	r.w.Linef("Extension Readiness: %.1f%% (%d/%d tests passed)", s.Percentage, s.Passed, s.Total)

	r.w.Newline()
	switch s.Verdict {
	case checklist.VerdictReady:
		r.w.Styled(output.ToneSuccess, fmt.Sprintf("SUCCESS: %s extension is production-ready!", r.project))
		r.w.Line("Ready for VS Code Marketplace publication!")
	case checklist.VerdictMostlyReady:
		r.w.Styled(output.ToneWarning, fmt.Sprintf("WARNING: Extension mostly ready but has %d failing tests", s.Failed))
	default:
		r.w.Styled(output.ToneError, fmt.Sprintf("ERROR: Extension needs significant work - %d tests failing", s.Failed))
	}
}

// FinalStatus prints the closing status line.
func (r *TextRenderer) FinalStatus(ready bool) {
	r.w.Newline()
	if ready {
		r.w.Line("Final Status: PRODUCTION READY")
	} else {
		r.w.Line("Final Status: NEEDS FIXES")
	}
}
