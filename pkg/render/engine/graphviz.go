package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// Graphviz renders in-process with the WebAssembly build of Graphviz, so no
// system installation is needed for svg, png and jpg. PDF output, and PNG
// output when Scale is set, go through rsvg-convert.
type Graphviz struct {
	Layout  string        // layout program, defaults to dot
	Scale   float64       // PNG scale factor via rsvg-convert, zero renders PNG directly
	Timeout time.Duration // zero means no limit beyond ctx
}

const graphvizName = "graphviz"

// Name returns "graphviz", followed by "/<layout>" and "@<scale>x" when set.
func (g *Graphviz) Name() string {
	name := graphvizName
	if g.Layout != "" {
		name += "/" + g.Layout
	}
	return name + scaleSuffix(g.Scale)
}

// Render lays out src and encodes it as format.
func (g *Graphviz) Render(ctx context.Context, src []byte, format string) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	switch {
	case format == render.FormatPDF:
		svg, err := g.render(ctx, src, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return render.ToPDF(ctx, svg)
	case format == render.FormatPNG && g.Scale > 0:
		svg, err := g.render(ctx, src, graphviz.SVG)
		if err != nil {
			return nil, err
		}
		return render.ToPNG(ctx, svg, g.Scale)
	case format == render.FormatPNG:
		return g.render(ctx, src, graphviz.PNG)
	case format == render.FormatJPG:
		return g.render(ctx, src, graphviz.JPG)
	default:
		return g.render(ctx, src, graphviz.SVG)
	}
}

func (g *Graphviz) render(ctx context.Context, src []byte, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, g.fail(ctx, "init graphviz", err)
	}
	defer gv.Close()
	if g.Layout != "" {
		gv.SetLayout(graphviz.Layout(g.Layout))
	}

	graph, err := graphviz.ParseBytes(src)
	if err != nil {
		return nil, g.fail(ctx, "parse DOT", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, format, &buf); err != nil {
		return nil, g.fail(ctx, "render", err)
	}
	return buf.Bytes(), nil
}

func (g *Graphviz) fail(ctx context.Context, stage string, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return timeoutError(graphvizName, g.Timeout, ctx.Err())
	}
	return &errors.EngineError{
		Engine:      graphvizName,
		Diagnostics: err.Error(),
		ExitCode:    -1,
		Cause:       fmt.Errorf("%s: %w", stage, err),
	}
}
