// Package output provides consistent CLI output formatting: status lines,
// bracketed tags, headings and rules, coloured only when asked to.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Tone selects the style of a tag.
type Tone int

const (
	// ToneSuccess is for passing results.
	ToneSuccess Tone = iota
	// ToneWarning is for skipped or partial results.
	ToneWarning
	// ToneError is for failures and crashes.
	ToneError
	// ToneDim is for secondary text.
	ToneDim
)

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles Styles
	color  bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithColor enables lipgloss styling of tags and headings.
func WithColor(enabled bool) Option {
	return func(w *Writer) {
		w.color = enabled
	}
}

// New creates a new output Writer. Color is off unless WithColor is given.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{out: out}
	for _, opt := range opts {
		opt(w)
	}
	if w.color {
		w.styles = DefaultStyles(out)
	} else {
		w.styles = NoColorStyles()
	}
	return w
}

// ColorEnabled reports whether the writer styles its output.
func (w *Writer) ColorEnabled() bool {
	return w.color
}

// Status prints a status message with an icon.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", msg)
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", msg)
}

// Tagged prints `<indent>[TAG] msg`, styling the bracketed tag by tone.
func (w *Writer) Tagged(indent, tag string, tone Tone, msg string) {
	_, _ = fmt.Fprintf(w.out, "%s%s %s\n", indent, w.render(tone, "["+tag+"]"), msg)
}

// Heading prints a bold line.
func (w *Writer) Heading(text string) {
	_, _ = fmt.Fprintln(w.out, w.styles.Header.Render(text))
}

// Rule prints a separator line of the given width.
func (w *Writer) Rule(width int) {
	_, _ = fmt.Fprintln(w.out, w.styles.Dim.Render(strings.Repeat("=", width)))
}

// Line prints text followed by a newline.
func (w *Writer) Line(text string) {
	_, _ = fmt.Fprintln(w.out, text)
}

// Linef prints a formatted line.
func (w *Writer) Linef(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format+"\n", args...)
}

// Styled prints text in the given tone.
func (w *Writer) Styled(tone Tone, text string) {
	_, _ = fmt.Fprintln(w.out, w.render(tone, text))
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

func (w *Writer) render(tone Tone, text string) string {
	if !w.color {
		return text
	}
	switch tone {
	case ToneSuccess:
		return w.styles.Success.Render(text)
	case ToneWarning:
		return w.styles.Warning.Render(text)
	case ToneError:
		return w.styles.Error.Render(text)
	default:
		return w.styles.Dim.Render(text)
	}
}
