// Package ui renders calculation results, analyses and scans for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer. A nil out writes to stdout.
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out, noColor: noColor, verbosity: 1}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

func (w *Writer) color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes formatted text and a newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("\n%s\n", w.color(Bold+Cyan, "━━━ "+title+" ━━━"))
}

// SubHeader prints a subsection header
func (w *Writer) SubHeader(title string) {
	w.Println("%s", w.color(Bold, "▸ "+title))
}

func (w *Writer) status(minVerbosity int, icon, c, format string, args []interface{}) {
	if w.verbosity < minVerbosity {
		return
	}
	w.Println("%s %s", w.color(c, icon), fmt.Sprintf(format, args...))
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.status(0, "✓", Green, format, args)
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.status(0, "⚠", Yellow, format, args)
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.status(0, "✗", Red, format, args)
}

// Info prints an info message unless the writer is quiet
func (w *Writer) Info(format string, args ...interface{}) {
	w.status(1, "ℹ", Blue, format, args)
}

// Debug prints a dimmed message in verbose mode only
func (w *Writer) Debug(format string, args ...interface{}) {
	w.status(2, " ", Dim, format, args)
}

// Bullet prints one indented list item
func (w *Writer) Bullet(text string) {
	w.Println("  • %s", text)
}

// Delta formats a signed cost change. Increases are red and decreases green.
func (w *Writer) Delta(d decimal.Decimal, unit string) string {
	text := d.StringFixed(2) + " " + unit
	switch d.Sign() {
	case 1:
		return w.color(Red, "+"+text)
	case -1:
		return w.color(Green, text)
	}
	return text
}

// Table renders an aligned table with an optional footer row
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	footer  []string
	widths  []int
	right   map[int]bool
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	t := &Table{
		w:       w,
		headers: headers,
		widths:  make([]int, len(headers)),
		right:   make(map[int]bool),
	}
	t.measure(headers)
	return t
}

// AlignRight right-aligns the given columns, typically amounts
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow adds a row, padding or truncating to the header count
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, t.fit(cells))
}

// SetFooter sets a row printed below a rule, such as totals
func (t *Table) SetFooter(cells ...string) {
	t.footer = t.fit(cells)
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.measure(row)
	return row
}

func (t *Table) measure(cells []string) {
	for i, c := range cells {
		if n := len([]rune(c)); n > t.widths[i] {
			t.widths[i] = n
		}
	}
}

func (t *Table) line(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		pad := strings.Repeat(" ", t.widths[i]-len([]rune(c)))
		if t.right[i] {
			parts[i] = pad + c
		} else {
			parts[i] = c + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, " │ "), " ")
}

func (t *Table) rule() string {
	seps := make([]string, len(t.widths))
	for i, w := range t.widths {
		seps[i] = strings.Repeat("─", w)
	}
	return strings.Join(seps, "─┼─")
}

// Render prints the table
func (t *Table) Render() {
	t.w.Println("%s", t.w.color(Bold, t.line(t.headers)))
	t.w.Println("%s", t.rule())
	for _, row := range t.rows {
		t.w.Println("%s", t.line(row))
	}
	if t.footer != nil {
		t.w.Println("%s", t.rule())
		t.w.Println("%s", t.w.color(Bold, t.line(t.footer)))
	}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spin animates label while fn runs, then prints the outcome and returns
// fn's error.
func (w *Writer) Spin(label string, fn func() error) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fmt.Fprintf(w.out, "\r%s %s", w.color(Cyan, spinnerFrames[frame%len(spinnerFrames)]), label)
			}
		}
	}()

	start := time.Now()
	err := fn()
	close(stop)
	<-done

	icon := w.color(Green, "✓")
	if err != nil {
		icon = w.color(Red, "✗")
	}
	fmt.Fprintf(w.out, "\r%s %s (%s)\n", icon, label, formatDuration(time.Since(start)))
	return err
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "< 1s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}
