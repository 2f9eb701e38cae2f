// Package render holds what the diagram compilers and engines share: the
// output format names and SVG conversion.
//
// # Formats
//
// Supported formats are png, svg, pdf, jpg and dot. The dot format is the
// compiled description itself and never reaches an engine.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). The in-process Graphviz
// engine uses them for PDF output and for scaled PNG output:
//
//	svg, err := gv.Render(ctx, src, render.FormatSVG)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// Failures are reported as [errors.EngineError] so callers treat a missing
// rsvg-convert like a missing dot binary.
//
// Subpackages:
//   - [dot]: compiles a diagram to DOT source
//   - [engine]: turns DOT source into image bytes
//
// [dot]: github.com/matzehuels/archdiagram/pkg/render/dot
// [engine]: github.com/matzehuels/archdiagram/pkg/render/engine
// [errors.EngineError]: github.com/matzehuels/archdiagram/pkg/errors.EngineError
package render
