// Package render turns provenance reports into terminal text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/ui/style"
)

const labelWidth = 13

// Printer writes reports to a single writer with a fixed color profile.
type Printer struct {
	w     io.Writer
	name  lipgloss.Style
	label lipgloss.Style
	value lipgloss.Style
	dirty lipgloss.Style
	miss  lipgloss.Style
}

// New creates a Printer for w.
func New(w io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Printer{
		w:     w,
		name:  r.NewStyle().Foreground(style.Module).Bold(true),
		label: r.NewStyle().Foreground(style.Muted).Width(labelWidth),
		value: r.NewStyle(),
		dirty: r.NewStyle().Foreground(style.Attention),
		miss:  r.NewStyle().Foreground(style.Muted).Faint(true),
	}
}

// Summary prints one line: the name followed by the long description.
func (p *Printer) Summary(name string, report domain.Report) error {
	desc := report.LongDescription()
	var rendered string
	if desc == "" {
		rendered = p.miss.Render(style.Missing + " not found")
	} else {
		rendered = p.highlightDirty(desc)
	}
	_, err := fmt.Fprintf(p.w, "%s %s\n", p.name.Render(name), rendered)
	return err
}

// Details prints every known field of report under a heading, skipping undetected values.
func (p *Printer) Details(name string, report domain.Report) error {
	var b strings.Builder
	b.WriteString(p.name.Render(name))
	b.WriteByte('\n')

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString("  ")
		b.WriteString(p.label.Render(label))
		b.WriteString(p.value.Render(value))
		b.WriteByte('\n')
	}

	row("version", report.BestVersion())
	row("url", report.BestURL())
	row("requirement", report.PkgMgrRequirement())
	if report.MetadataVersion() != "" && report.MetadataVersion() != report.BestVersion() {
		row("metadata", report.MetadataVersion())
	}
	row("commit", report.VCSCommit())
	row("tag", report.VCSTag())
	row("remote", report.BestRemoteURL())
	if dirty, known := report.VCSIsDirty(); known {
		if dirty {
			b.WriteString("  " + p.label.Render("tree") + p.dirty.Render(style.Warning+" dirty") + "\n")
		} else {
			b.WriteString("  " + p.label.Render("tree") + p.value.Render(style.Clean+" clean") + "\n")
		}
	}
	if vcs := report.VCSDescription(); vcs != "" {
		b.WriteString("  " + p.label.Render("source") + p.highlightDirty(vcs) + "\n")
	}
	row("fingerprint", report.Fingerprint())

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *Printer) highlightDirty(desc string) string {
	if !strings.HasSuffix(desc, style.Dirty) {
		return p.value.Render(desc)
	}
	return p.value.Render(strings.TrimSuffix(desc, style.Dirty)) + p.dirty.Render(style.Dirty)
}
