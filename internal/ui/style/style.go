// Package style holds the colours and glyphs shared by the report printer and the log handler.
package style

import "github.com/charmbracelet/lipgloss"

// Report colours.
var (
	Module    = lipgloss.Color("#8B5CF6")
	Muted     = lipgloss.Color("#667085")
	Attention = lipgloss.Color("#F59E0B")
	Failure   = lipgloss.Color("#D93025")
)

// Glyphs.
const (
	Clean   = "✓"
	Cross   = "✗"
	Warning = "!"
	Missing = "○"
	Dirty   = "*"
)
