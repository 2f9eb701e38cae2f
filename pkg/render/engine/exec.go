package engine

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// defaultDPI is the resolution Graphviz uses for bitmap output.
const defaultDPI = 96

// Exec renders through a Graphviz executable on PATH. DOT source is piped to
// stdin; the image is read from stdout and stderr is kept verbatim for
// diagnostics.
type Exec struct {
	Path    string        // executable name or path, defaults to "dot"
	Layout  string        // passed as -K when set
	Scale   float64       // multiplies the bitmap dpi for png and jpg, zero for 1x
	Args    []string      // extra arguments placed before the output flags
	Env     []string      // extra environment, appended to the process environment
	Timeout time.Duration // zero means no limit beyond ctx
}

func (e *Exec) bin() string {
	if e.Path == "" {
		return "dot"
	}
	return e.Path
}

// Name returns the executable the engine runs, followed by the layout
// program and scale when set: "dot", "dot/neato" or "dot/neato@2x".
func (e *Exec) Name() string {
	name := e.bin()
	if e.Layout != "" {
		name += "/" + e.Layout
	}
	return name + scaleSuffix(e.Scale)
}

// Render runs the executable once. A missing executable, a non-zero exit and
// an expired timeout all yield an [errors.EngineError].
func (e *Exec) Render(ctx context.Context, src []byte, format string) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	bin := e.bin()
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, &errors.EngineError{
			Engine:      bin,
			Diagnostics: fmt.Sprintf("%s: command not found", bin),
			ExitCode:    127,
			Cause:       err,
		}
	}

	ctx, cancel := withTimeout(ctx, e.Timeout)
	defer cancel()

	args := append([]string{}, e.Args...)
	args = append(args, "-T"+format)
	if e.Layout != "" {
		args = append(args, "-K"+e.Layout)
	}
	if e.Scale > 0 && (format == render.FormatPNG || format == render.FormatJPG) {
		args = append(args, "-Gdpi="+strconv.FormatFloat(defaultDPI*e.Scale, 'f', -1, 64))
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(src)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, timeoutError(bin, e.Timeout, ctxErr)
		} else if ctxErr != nil {
			return nil, &errors.EngineError{Engine: bin, Diagnostics: stderr.String(), ExitCode: -1, Cause: ctxErr}
		}
		code := -1
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &errors.EngineError{Engine: bin, Diagnostics: stderr.String(), ExitCode: code, Cause: err}
	}
	return stdout.Bytes(), nil
}
