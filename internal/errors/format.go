package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
)

// FormatForCLI formats an error that aborts the CLI. Details are listed in
// key order, followed by the hint and the code.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}
	ae := asExtError(err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", ae.Message)
	for _, k := range sortedKeys(ae.Details) {
		fmt.Fprintf(&sb, "  %s: %s\n", k, ae.Details[k])
	}
	if ae.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", ae.Suggestion)
	}
	fmt.Fprintf(&sb, "  Code: %s\n", ae.Code)
	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
}

func toJSON(ae *ExtError) jsonError {
	je := jsonError{
		Code:       ae.Code,
		Message:    ae.Message,
		Category:   string(ae.Category),
		Severity:   string(ae.Severity),
		Details:    ae.Details,
		Suggestion: ae.Suggestion,
	}
	if ae.Cause != nil {
		je.Cause = ae.Cause.Error()
	}
	return je
}

// WriteJSON writes err as {"error": {...}} so `--json` consumers get a
// machine-readable object even when no report could be produced.
func WriteJSON(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Error jsonError `json:"error"`
	}{toJSON(asExtError(err))})
}

// LogValue implements slog.LogValuer, so slog.Any("error", err) logs the
// code, cause and details as a group.
func (e *ExtError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.Code),
		slog.String("message", e.Message),
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	for _, k := range sortedKeys(e.Details) {
		attrs = append(attrs, slog.String(k, e.Details[k]))
	}
	return slog.GroupValue(attrs...)
}

// asExtError returns err as an ExtError, wrapping foreign errors as
// internal ones.
func asExtError(err error) *ExtError {
	if ae, ok := err.(*ExtError); ok {
		return ae
	}
	return Wrap(ErrCodeInternal, err)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
