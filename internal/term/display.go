// Package term implements a pdfpng.Display that writes to a terminal.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	pdfpng "github.com/porticus-lab/go-pdf-png"
)

const barWidth = 30

// Display prints phases, progress, results and errors as text lines. On
// an interactive terminal the progress bar is redrawn in place.
//
// Terminal output cannot be taken back, so the Clear methods only reset
// internal state.
type Display struct {
	mu          sync.Mutex
	w           io.Writer
	interactive bool
	message     string
	drawn       bool // a progress line is open without a trailing newline
	showError   bool
}

// New returns a Display writing to w. Progress redraws in place when w is
// a terminal.
func New(w io.Writer) *Display {
	d := &Display{w: w}
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		d.interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return d
}

func (d *Display) SetPhase(p pdfpng.Phase) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p == pdfpng.PhaseProcessing {
		d.message = ""
	}
}

func (d *Display) SetProgress(p pdfpng.Progress) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p == (pdfpng.Progress{}) {
		d.endLine()
		d.message = ""
		return
	}
	if p.Message != "" {
		d.message = p.Message
	}
	line := fmt.Sprintf("[%s] %3d%% %s", bar(p.Percent), p.Rounded(), d.message)
	if d.interactive {
		fmt.Fprintf(d.w, "\r\033[K%s", line)
		d.drawn = true
		if p.Percent >= 100 {
			d.endLine()
		}
		return
	}
	fmt.Fprintln(d.w, line)
}

func (d *Display) ShowResults(arts []*pdfpng.Artifact) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endLine()

	fmt.Fprintf(d.w, "Converted %d %s:\n", len(arts), plural(len(arts), "page", "pages"))
	for _, a := range arts {
		fmt.Fprintf(d.w, "  Page %-4d %-10s %s\n", a.Page, a.Size, a.Name)
		if a.Ref.URL != "" {
			fmt.Fprintf(d.w, "            %s\n", a.Ref.URL)
		}
	}
}

func (d *Display) ClearResults() {}

func (d *Display) ShowError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endLine()
	d.showError = true
	fmt.Fprintf(d.w, "error: %s\n", msg)
}

func (d *Display) ClearError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.showError = false
}

func (d *Display) ClearInput() {}

// HasError reports whether an error message is currently shown.
func (d *Display) HasError() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.showError
}

func (d *Display) endLine() {
	if d.drawn {
		fmt.Fprintln(d.w)
		d.drawn = false
	}
}

func bar(percent float64) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100 * barWidth)
	return strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
