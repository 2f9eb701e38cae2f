package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// fakeDot returns an Exec that re-runs the test binary as a stand-in for dot.
func fakeDot(mode string) *Exec {
	return &Exec{
		Path: os.Args[0],
		Args: []string{"-test.run=TestHelperProcess", "--"},
		Env:  []string{"GO_WANT_HELPER_PROCESS=1", "HELPER_MODE=" + mode},
	}
}

// TestHelperProcess is not a real test. It is the fake layout engine used by
// the tests in this file.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) > 0 {
		args = args[1:]
	}

	in, _ := io.ReadAll(os.Stdin)
	switch os.Getenv("HELPER_MODE") {
	case "ok":
		fmt.Fprintf(os.Stdout, "%s|%s", strings.Join(args, " "), in)
		os.Exit(0)
	case "missing":
		fmt.Fprint(os.Stderr, "dot: command not found")
		os.Exit(127)
	case "syntax":
		fmt.Fprint(os.Stderr, "Error: <stdin>: syntax error in line 1 near '}'\n")
		os.Exit(1)
	case "hang":
		time.Sleep(10 * time.Second)
		os.Exit(0)
	}
	os.Exit(2)
}

func TestExecRender(t *testing.T) {
	e := fakeDot("ok")
	e.Layout = "neato"

	out, err := e.Render(context.Background(), []byte("digraph {}"), "svg")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if want := "-Tsvg -Kneato|digraph {}"; string(out) != want {
		t.Errorf("Render() = %q, want %q", out, want)
	}
}

func TestExecScale(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"png", "-Tpng -Gdpi=192|digraph {}"},
		{"jpg", "-Tjpg -Gdpi=192|digraph {}"},
		{"svg", "-Tsvg|digraph {}"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			e := fakeDot("ok")
			e.Scale = 2

			out, err := e.Render(context.Background(), []byte("digraph {}"), tt.format)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Render() = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestExecFailureKeepsDiagnostics(t *testing.T) {
	tests := []struct {
		mode     string
		diag     string
		exitCode int
	}{
		{"missing", "dot: command not found", 127},
		{"syntax", "Error: <stdin>: syntax error in line 1 near '}'\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			out, err := fakeDot(tt.mode).Render(context.Background(), []byte("digraph {"), "png")
			if out != nil {
				t.Error("failed render must not return output")
			}
			if !errors.Is(err, errors.ErrCodeRenderEngine) {
				t.Fatalf("Render() error = %v, want RENDER_ENGINE_FAILURE", err)
			}
			ee, ok := err.(*errors.EngineError)
			if !ok {
				t.Fatalf("Render() error type = %T, want *errors.EngineError", err)
			}
			if ee.Diagnostics != tt.diag {
				t.Errorf("Diagnostics = %q, want %q", ee.Diagnostics, tt.diag)
			}
			if ee.ExitCode != tt.exitCode {
				t.Errorf("ExitCode = %d, want %d", ee.ExitCode, tt.exitCode)
			}
		})
	}
}

func TestExecMissingBinary(t *testing.T) {
	e := &Exec{Path: "archdiagram-no-such-dot"}
	_, err := e.Render(context.Background(), []byte("digraph {}"), "png")

	ee, ok := err.(*errors.EngineError)
	if !ok {
		t.Fatalf("Render() error = %v, want *errors.EngineError", err)
	}
	if ee.Diagnostics != "archdiagram-no-such-dot: command not found" {
		t.Errorf("Diagnostics = %q", ee.Diagnostics)
	}
	if !strings.Contains(err.Error(), "RENDER_ENGINE_FAILURE") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExecTimeout(t *testing.T) {
	e := fakeDot("hang")
	e.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := e.Render(context.Background(), nil, "png")
	if !errors.Is(err, errors.ErrCodeRenderEngine) {
		t.Fatalf("Render() error = %v, want RENDER_ENGINE_FAILURE", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("timeout not honoured, took %s", elapsed)
	}
}

func TestExecRejectsFormat(t *testing.T) {
	e := fakeDot("ok")
	for _, f := range []string{"dot", "gif"} {
		if _, err := e.Render(context.Background(), nil, f); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("Render(%q) error = %v, want INVALID_FORMAT", f, err)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		opts Options
		name string
		ok   bool
	}{
		{Options{}, "dot", true},
		{Options{Kind: KindExec, Path: "/usr/local/bin/dot"}, "/usr/local/bin/dot", true},
		{Options{Kind: KindGraphviz}, "graphviz", true},
		{Options{Kind: KindGraphviz, Layout: "neato", Scale: 2}, "graphviz/neato@2x", true},
		{Options{Layout: "fdp", Scale: 1.5}, "dot/fdp@1.5x", true},
		{Options{Kind: "cairo"}, "", false},
		{Options{Scale: -1}, "", false},
	}
	for _, tt := range tests {
		e, err := New(tt.opts)
		if !tt.ok {
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("New(%+v) error = %v, want INVALID_INPUT", tt.opts, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%+v) error: %v", tt.opts, err)
		}
		if e.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", e.Name(), tt.name)
		}
	}
}

func TestGraphvizRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in-process graphviz in short mode")
	}
	g := &Graphviz{}
	out, err := g.Render(context.Background(), []byte(`digraph { a -> b }`), "svg")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.Contains(out, []byte("<svg")) {
		t.Errorf("Render() did not produce SVG: %.80s", out)
	}
}

func TestGraphvizInvalidSourceKeepsDiagnostics(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in-process graphviz in short mode")
	}
	g := &Graphviz{}
	_, err := g.Render(context.Background(), []byte(`digraph { a -> `), "svg")

	ee, ok := err.(*errors.EngineError)
	if !ok {
		t.Fatalf("Render() error = %v, want *errors.EngineError", err)
	}
	if ee.Engine != "graphviz" {
		t.Errorf("Engine = %q, want graphviz", ee.Engine)
	}
	if ee.Diagnostics == "" {
		t.Error("Diagnostics should carry the graphviz message")
	}
	if !errors.Is(err, errors.ErrCodeRenderEngine) {
		t.Errorf("Render() error = %v, want RENDER_ENGINE_FAILURE", err)
	}
}
