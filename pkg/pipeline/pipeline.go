// Package pipeline turns diagrams into files.
//
// This package implements the compile → cache → engine → write pipeline used
// by the CLI and the preview server. By centralizing this logic, every entry
// point gets the same caching, logging and atomic-write behavior.
//
// # Architecture
//
// A render runs four stages:
//
//  1. Compile: the diagram becomes DOT source (pure, deterministic)
//  2. Cache: the artifact key is derived from the source, format and engine
//  3. Engine: on a miss, the layout engine produces the image
//  4. Write: the image lands in a temporary file beside the destination and
//     is renamed onto it
//
// A failure at any stage leaves no file at the requested path. An invalid
// diagram fails in stage 1, before the engine is ever started.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, eng, logger)
//	res, err := runner.Execute(ctx, d, pipeline.Options{
//	    Output: "docs/architecture/architecture-main.png",
//	})
//
// Render many diagrams concurrently:
//
//	results, err := runner.RenderAll(ctx, jobs)
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is the output format when none is given.
	DefaultFormat = render.FormatPNG

	// DefaultConcurrency bounds RenderAll when the runner sets no limit.
	DefaultConcurrency = 4
)

// =============================================================================
// Options
// =============================================================================

// Options configures a single render.
type Options struct {
	// Output is the destination file. Parent directories are created.
	Output string

	// Format is png, svg, pdf, jpg or dot. Empty derives it from the
	// Output extension, falling back to DefaultFormat.
	Format string

	// Refresh skips the cache lookup but still stores the new artifact.
	Refresh bool
}

// ValidateAndSetDefaults checks the output path and resolves the format.
func (o *Options) ValidateAndSetDefaults() error {
	if err := errors.ValidateOutputPath(o.Output); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = FormatFromPath(o.Output)
	}
	return render.ValidateFormat(o.Format)
}

// FormatFromPath returns the format named by path's extension, or
// DefaultFormat when the extension is not a supported format.
func FormatFromPath(path string) string {
	ext := filepath.Ext(path)
	if ext == ".jpeg" {
		return render.FormatJPG
	}
	if len(ext) > 1 && render.ValidateFormat(ext[1:]) == nil {
		return ext[1:]
	}
	return DefaultFormat
}

// Job pairs a diagram with its render options for RenderAll.
type Job struct {
	Diagram *diagram.Diagram
	Options Options
}

// =============================================================================
// Results
// =============================================================================

// Result describes one written file.
type Result struct {
	Name     string        // diagram name, or title when unnamed
	Path     string        // file written
	Format   string        // output format
	Size     int           // bytes written
	Cached   bool          // artifact came from the cache
	Duration time.Duration // wall time for the whole render
}

func diagramName(d *diagram.Diagram) string {
	if d.Name() != "" {
		return d.Name()
	}
	return d.Title()
}
