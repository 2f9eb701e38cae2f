package cli

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/config"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/pipeline"
	"github.com/matzehuels/archdiagram/pkg/render"
	"github.com/matzehuels/archdiagram/pkg/render/engine"
)

// renderOpts holds the command-line flags for the render command. Zero values
// leave the config file setting in place.
type renderOpts struct {
	output      string        // output directory
	format      string        // png, svg, pdf, jpg or dot
	engine      string        // exec or graphviz
	layout      string        // Graphviz layout program
	scale       float64       // bitmap scale factor
	timeout     time.Duration // per-diagram engine limit
	concurrency int           // parallel renders
	noCache     bool          // skip the artifact cache
	refresh     bool          // re-render even on a cache hit
	interactive bool          // choose diagrams with the picker
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [diagram...]",
		Short: "Render diagrams to image files",
		Long: `Render diagrams through Graphviz. With no arguments every diagram of the
catalog is rendered into the output directory as <name>.<format>.`,
		Example: `  archdiagram render
  archdiagram render architecture-main -f svg -o docs
  archdiagram render --engine graphviz --layout neato -j 8
  archdiagram render -i`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, opts)
		},
		ValidArgsFunction: c.completeDiagramNames,
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output directory (default from config: docs/architecture)")
	f.StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(render.Formats(), ", "))
	f.StringVar(&opts.engine, "engine", "", "layout engine: "+strings.Join(engine.Kinds(), " or "))
	f.StringVar(&opts.layout, "layout", "", "Graphviz layout program (dot, neato, fdp, ...)")
	f.Float64Var(&opts.scale, "scale", 0, "bitmap scale factor for png and jpg (e.g. 2 for 2x)")
	f.DurationVar(&opts.timeout, "timeout", 0, "per-diagram engine timeout (e.g. 30s)")
	f.IntVarP(&opts.concurrency, "jobs", "j", 0, "diagrams rendered in parallel")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "choose diagrams interactively")

	return cmd
}

// apply overrides cfg with the flags that were set.
func (o renderOpts) apply(cfg *config.Config) error {
	if o.output != "" {
		cfg.Output.Dir = o.output
	}
	if o.format != "" {
		cfg.Output.Format = strings.ToLower(o.format)
	}
	if o.engine != "" {
		cfg.Output.Engine = strings.ToLower(o.engine)
	}
	if o.layout != "" {
		cfg.Output.Layout = o.layout
	}
	if o.scale != 0 {
		cfg.Output.Scale = o.scale
	}
	if o.timeout > 0 {
		cfg.Output.Timeout = o.timeout
	}
	if o.concurrency > 0 {
		cfg.Output.Concurrency = o.concurrency
	}
	return cfg.Validate()
}

func (c *CLI) runRender(cmd *cobra.Command, names []string, opts renderOpts) error {
	ctx := cmd.Context()
	out := printer{w: cmd.OutOrStdout()}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	if opts.interactive {
		names, err = pickDiagrams(cat.List())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			out.info("Nothing selected")
			return nil
		}
	}
	if len(names) == 0 {
		names = cat.Names()
	}

	jobs, err := buildJobs(cat, cfg, names, opts.refresh)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	results, renderErr := c.renderWithSpinner(cmd, runner, jobs)

	rendered := 0
	for i, res := range results {
		d := jobs[i].Diagram
		if res == nil {
			out.failure("%s", d.Name())
			continue
		}
		rendered++
		out.success("%s", res.Name)
		out.file(res.Path)
		out.stats(d.NodeCount(), d.ClusterCount(), d.EdgeCount(), res.Cached)
	}
	if renderErr != nil {
		reportEngineFailure(out, renderErr)
		return renderErr
	}

	prog.done(fmt.Sprintf("Rendered %d diagrams into %s", rendered, cfg.Output.Dir))
	if rendered > 0 {
		out.nextStep("Preview in a browser", appName+" serve")
	}
	return nil
}

// buildJobs composes every named diagram up front so composition errors are
// reported before the engine runs.
func buildJobs(cat *catalog.Catalog, cfg *config.Config, names []string, refresh bool) ([]pipeline.Job, error) {
	style := cfg.Style()
	jobs := make([]pipeline.Job, 0, len(names))
	for _, name := range names {
		d, err := cat.Build(name, style)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, pipeline.Job{
			Diagram: d,
			Options: pipeline.Options{
				Output:  filepath.Join(cfg.Output.Dir, name+"."+cfg.Output.Format),
				Format:  cfg.Output.Format,
				Refresh: refresh,
			},
		})
	}
	return jobs, nil
}

func (c *CLI) renderWithSpinner(cmd *cobra.Command, runner *pipeline.Runner, jobs []pipeline.Job) ([]*pipeline.Result, error) {
	// Debug logs would interleave with the spinner line.
	if c.Logger.GetLevel() <= LogDebug {
		return runner.RenderAll(cmd.Context(), jobs)
	}
	s := newSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Rendering %d diagrams...", len(jobs)))
	s.Start()
	defer s.Stop()
	return runner.RenderAll(cmd.Context(), jobs)
}

// reportEngineFailure surfaces the engine's own diagnostics, which usually say
// what to install or fix.
func reportEngineFailure(out printer, err error) {
	var ee *errors.EngineError
	if !stderrors.As(err, &ee) {
		return
	}
	if ee.Diagnostics != "" {
		out.detail("%s", strings.TrimSpace(ee.Diagnostics))
	}
	if ee.ExitCode == 127 {
		out.warning("Install Graphviz (https://graphviz.org/download/) or use --engine graphviz")
	}
}
