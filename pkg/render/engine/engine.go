package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// Engine turns DOT source into an image in the requested format.
//
// Implementations report every failure of the underlying layout tool as an
// [errors.EngineError] and never retry.
type Engine interface {
	// Name identifies the engine and its layout program in logs and cache keys.
	Name() string
	// Render lays out src and returns the encoded image.
	Render(ctx context.Context, src []byte, format string) ([]byte, error)
}

// Engine kinds selectable by name.
const (
	KindExec     = "exec"
	KindGraphviz = "graphviz"
)

// Options configures [New].
type Options struct {
	Kind    string        // exec (default) or graphviz
	Path    string        // dot executable for exec, defaults to "dot"
	Layout  string        // layout program: dot, neato, fdp, ...
	Scale   float64       // bitmap scale factor, zero for 1x
	Timeout time.Duration // per-render limit, zero for none
}

// New returns the engine selected by opts.Kind.
func New(opts Options) (Engine, error) {
	if opts.Scale < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	switch opts.Kind {
	case "", KindExec:
		return &Exec{Path: opts.Path, Layout: opts.Layout, Scale: opts.Scale, Timeout: opts.Timeout}, nil
	case KindGraphviz:
		return &Graphviz{Layout: opts.Layout, Scale: opts.Scale, Timeout: opts.Timeout}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown engine %q (must be %s or %s)", opts.Kind, KindExec, KindGraphviz)
}

// Kinds lists the selectable engine kinds.
func Kinds() []string { return []string{KindExec, KindGraphviz} }

func checkFormat(format string) error {
	if format == render.FormatDOT {
		return errors.New(errors.ErrCodeInvalidFormat, "dot output does not need an engine")
	}
	return render.ValidateFormat(format)
}

// scaleSuffix marks scaled engines in their name, and so in cache keys:
// "@2x" for a scale of 2.
func scaleSuffix(scale float64) string {
	if scale <= 0 {
		return ""
	}
	return "@" + strconv.FormatFloat(scale, 'f', -1, 64) + "x"
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// timeoutError converts a context expiry into an engine failure.
func timeoutError(engine string, d time.Duration, cause error) *errors.EngineError {
	return &errors.EngineError{
		Engine:      engine,
		Diagnostics: fmt.Sprintf("%s: timed out after %s", engine, d),
		ExitCode:    -1,
		Cause:       cause,
	}
}
