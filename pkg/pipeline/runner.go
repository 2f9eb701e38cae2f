package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/render"
	"github.com/matzehuels/archdiagram/pkg/render/dot"
	"github.com/matzehuels/archdiagram/pkg/render/engine"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it.
//
// The Runner is stateless except for the cache, engine and logger. Multiple
// goroutines can safely use the same Runner for different diagrams.
type Runner struct {
	Cache       cache.Cache
	Keyer       cache.Keyer
	Engine      engine.Engine
	Logger      *log.Logger
	Concurrency int // RenderAll worker limit, DefaultConcurrency when zero
}

// NewRunner creates a runner with the given cache and engine.
// If cache is nil, a NullCache is used (caching disabled).
// If eng is nil, the system dot executable is used.
func NewRunner(c cache.Cache, eng engine.Engine, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if eng == nil {
		eng = &engine.Exec{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  cache.NewDefaultKeyer(),
		Engine: eng,
		Logger: logger,
	}
}

// Compile converts d to DOT source.
func (r *Runner) Compile(ctx context.Context, d *diagram.Diagram) ([]byte, error) {
	name := diagramName(d)
	hooks := observability.Pipeline()
	hooks.OnCompileStart(ctx, name)

	start := time.Now()
	src, err := dot.Compile(d)
	hooks.OnCompileComplete(ctx, name, len(src), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return src, nil
}

// RenderBytes compiles d and renders it in format, consulting the cache.
// The bool result reports a cache hit.
func (r *Runner) RenderBytes(ctx context.Context, d *diagram.Diagram, format string) ([]byte, bool, error) {
	if err := render.ValidateFormat(format); err != nil {
		return nil, false, err
	}
	src, err := r.Compile(ctx, d)
	if err != nil {
		return nil, false, err
	}
	return r.RenderSource(ctx, diagramName(d), src, format, false)
}

// RenderSource renders already-compiled DOT source. The dot format returns
// src unchanged without touching the cache or engine.
func (r *Runner) RenderSource(ctx context.Context, name string, src []byte, format string, refresh bool) ([]byte, bool, error) {
	if format == render.FormatDOT {
		return src, false, nil
	}

	key := r.Keyer.ArtifactKey(src, cache.ArtifactKeyOpts{Format: format, Engine: r.Engine.Name()})
	cacheHooks := observability.Cache()
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		} else if err != nil {
			r.Logger.Warn("cache read failed", "diagram", name, "err", err)
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, name, format, r.Engine.Name())
	start := time.Now()
	data, err := r.Engine.Render(ctx, src, format)
	hooks.OnRenderComplete(ctx, name, format, r.Engine.Name(), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", name, err)
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "diagram", name, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Execute renders d to opts.Output. Nothing is written unless every stage
// succeeds, and a pre-existing file at the destination is only replaced by a
// complete new one.
func (r *Runner) Execute(ctx context.Context, d *diagram.Diagram, opts Options) (*Result, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil diagram")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	name := diagramName(d)
	start := time.Now()

	src, err := r.Compile(ctx, d)
	if err != nil {
		return nil, err
	}
	data, hit, err := r.RenderSource(ctx, name, src, opts.Format, opts.Refresh)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(opts.Output, data); err != nil {
		return nil, err
	}

	res := &Result{
		Name:     name,
		Path:     opts.Output,
		Format:   opts.Format,
		Size:     len(data),
		Cached:   hit,
		Duration: time.Since(start),
	}
	r.Logger.Info("rendered diagram",
		"diagram", res.Name,
		"format", res.Format,
		"path", res.Path,
		"cached", res.Cached,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
