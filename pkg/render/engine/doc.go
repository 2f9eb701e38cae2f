// Package engine runs the Graphviz layout engine on compiled DOT source.
//
// Two engines implement [Engine]:
//
//   - [Exec] runs the system dot binary (or another layout program) as a
//     subprocess, piping DOT on stdin. It is the default.
//   - [Graphviz] renders in-process with github.com/goccy/go-graphviz, so a
//     preview server or CI job can render without a Graphviz installation.
//
// Any failure of the layout tool, including a missing executable or an
// expired timeout, is returned as an [errors.EngineError] whose Diagnostics
// field holds the tool's stderr unmodified. Engines never retry.
//
//	e, err := engine.New(engine.Options{Kind: engine.KindExec, Timeout: 30 * time.Second})
//	png, err := e.Render(ctx, src, "png")
//
// [errors.EngineError]: github.com/matzehuels/archdiagram/pkg/errors.EngineError
package engine
