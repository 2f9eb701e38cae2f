// Package cli implements the archdiagram command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/pkg/buildinfo"
	"github.com/matzehuels/archdiagram/pkg/cache"
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/config"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/manifest"
	"github.com/matzehuels/archdiagram/pkg/observability"
	"github.com/matzehuels/archdiagram/pkg/pipeline"
	"github.com/matzehuels/archdiagram/pkg/render/engine"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "archdiagram"

	// defaultManifest is the manifest looked up in the working directory when
	// --manifest is not given.
	defaultManifest = "diagrams.toml"

	// redisKeyPrefix scopes artifact keys in a shared redis instance.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath   string
	manifestPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache and
// server events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "archdiagram renders architecture diagrams with Graphviz",
		Long:         `archdiagram composes architecture diagrams (nodes, nested clusters and edges) and renders them through the Graphviz layout engine into PNG, SVG, PDF, JPG or DOT files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().StringVar(&c.manifestPath, "manifest", "", "diagram manifest (default ./"+defaultManifest+" when present, else the built-in catalog)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Catalog
// =============================================================================

// loadConfig reads the --config file, falling back to ./archdiagram.toml and
// then to the built-in defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" && fileExists(config.DefaultFile) {
		path = config.DefaultFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

// loadCatalog returns the diagrams of the --manifest file, of ./diagrams.toml,
// or the built-in TaskAgent catalog, in that order of preference.
func (c *CLI) loadCatalog() (*catalog.Catalog, error) {
	path := c.manifestPath
	if path == "" && fileExists(defaultManifest) {
		path = defaultManifest
	}
	if path == "" {
		return catalog.TaskAgent(), nil
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded manifest", "path", path, "diagrams", len(m.Diagrams))
	return m.Catalog()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	eng, err := engine.New(cfg.EngineOptions())
	if err != nil {
		return nil, err
	}
	ch, keyer := c.newCache(ctx, cfg, noCache)
	r := pipeline.NewRunner(ch, eng, c.Logger)
	r.Keyer = keyer
	r.Concurrency = cfg.Output.Concurrency
	c.Logger.Debug("runner ready", "engine", eng.Name(), "concurrency", r.Concurrency)
	return r, nil
}

// newCache picks the artifact cache. A configured but unreachable redis
// degrades to the local file cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, cache.Keyer) {
	keyer := cache.NewDefaultKeyer()
	if noCache || !cfg.Output.Cache {
		return cache.NewNullCache(), keyer
	}

	if cfg.Output.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.Output.RedisURL})
		if err == nil {
			return rc, cache.NewScopedKeyer(keyer, redisKeyPrefix)
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), keyer
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), keyer
	}
	return fc, keyer
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/archdiagram/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate home directory")
	}
	return filepath.Join(home, ".cache", appName), nil
}
