// Package report renders patching results for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/eternalmods/eternalpatcher/internal/catalog"
	"github.com/eternalmods/eternalpatcher/internal/patch"
)

// Printer writes human-readable results to an output stream.
type Printer struct {
	w       io.Writer
	success lipgloss.Style
	failure lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter returns a Printer for w. Colors are used only when color is
// true and w is a terminal that supports them.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	p := &Printer{
		w:       w,
		success: r.NewStyle(),
		failure: r.NewStyle(),
		heading: r.NewStyle(),
		muted:   r.NewStyle(),
	}
	if color {
		p.success = p.success.Foreground(lipgloss.Color("10")).Bold(true)
		p.failure = p.failure.Foreground(lipgloss.Color("9")).Bold(true)
		p.heading = p.heading.Bold(true)
		p.muted = p.muted.Faint(true)
	}
	return p
}

// Outcomes prints one line per outcome followed by the summary line. It
// returns true when every patch succeeded.
func (p *Printer) Outcomes(outcomes []patch.Outcome) bool {
	for _, o := range outcomes {
		name := "<nil>"
		if o.Patch != nil {
			name = o.Patch.Description
		}
		status := p.success.Render("Success")
		if !o.Success {
			status = p.failure.Render("Failure")
		}
		line := fmt.Sprintf("%s : %s", name, status)
		if o.Err != nil {
			line += " " + p.muted.Render("("+o.Err.Error()+")")
		}
		fmt.Fprintln(p.w, line)
	}

	succeeded, _ := patch.Summary(outcomes)
	fmt.Fprintf(p.w, "\n%s\n", p.heading.Render(fmt.Sprintf("%d out of %d applied.", succeeded, len(outcomes))))
	return succeeded == len(outcomes)
}

// Build prints a build header and its patches.
func (p *Printer) Build(b *catalog.Build) {
	fmt.Fprintf(p.w, "%s %s\n", p.heading.Render(b.ID), p.muted.Render(b.ExecutableFileName+" "+b.Checksum))
	if len(b.Patches) == 0 {
		fmt.Fprintln(p.w, "  (no patches)")
		return
	}
	for _, pt := range b.Patches {
		switch pt.Kind {
		case patch.Offset:
			fmt.Fprintf(p.w, "  %s [offset 0x%X, %d bytes]\n", pt.Description, pt.Offset, len(pt.Replacement))
		default:
			fmt.Fprintf(p.w, "  %s [pattern %X, %d bytes]\n", pt.Description, pt.Pattern, len(pt.Replacement))
		}
	}
}
