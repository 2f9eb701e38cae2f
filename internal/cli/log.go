// Package cli implements the archdiagram command-line interface.
//
// This package provides commands for rendering architecture diagrams through
// Graphviz, printing their DOT source, listing and previewing them, and
// managing the artifact cache. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Render diagrams to png, svg, pdf, jpg or dot files
//   - dot: Print the DOT source of one diagram
//   - list: Show the diagrams of the active catalog
//   - serve: Serve diagrams over HTTP for live previews
//   - cache: Manage the rendered-artifact cache
//
// # Diagrams and Configuration
//
// Diagrams come from a TOML manifest (--manifest, or ./diagrams.toml) or the
// built-in TaskAgent catalog. Presentation and output settings come from
// --config, or ./archdiagram.toml; flags override both.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline, cache and HTTP events.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered 6 diagrams (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
