// Package config loads archdiagram settings from TOML.
//
// A config file adjusts presentation (direction, edge routing, spacing,
// per-kind attribute defaults, cluster role presets) and output settings.
// Every key is optional; unset keys keep the values of [Default], which
// reproduce the house style of [diagram.DefaultStyle].
//
//	direction = "LR"
//	splines   = "polyline"
//
//	[output]
//	dir     = "docs/architecture"
//	timeout = "1m"
//	scale   = 2.0
//
//	[roles.backend]
//	bgcolor = "#d0f0d0"
//
// Attribute tables are merged key by key onto the defaults, so overriding one
// key of a role keeps the rest of its preset.
//
// [diagram.DefaultStyle]: github.com/matzehuels/archdiagram/pkg/diagram.DefaultStyle
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
	"github.com/matzehuels/archdiagram/pkg/render/engine"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "archdiagram.toml"

// Config holds presentation and output settings.
type Config struct {
	Direction diagram.Direction
	Splines   string
	NodeSep   float64
	RankSep   float64

	Graph   diagram.Attrs
	Node    diagram.Attrs
	Edge    diagram.Attrs
	Cluster diagram.Attrs
	Roles   map[string]diagram.Attrs

	Output Output
}

// Output controls where and how diagrams are rendered.
type Output struct {
	Dir         string
	Format      string
	Engine      string
	Layout      string
	Scale       float64
	Timeout     time.Duration
	Concurrency int
	Cache       bool
	RedisURL    string
}

// Default returns the built-in configuration.
func Default() *Config {
	style := diagram.DefaultStyle()
	return &Config{
		Direction: style.Direction,
		Splines:   diagram.SplinesOrtho,
		NodeSep:   0.8,
		RankSep:   1.0,
		Graph:     diagram.Attrs{},
		Node:      diagram.Attrs{},
		Edge:      diagram.Attrs{},
		Cluster:   diagram.Attrs{},
		Roles:     map[string]diagram.Attrs{},
		Output: Output{
			Dir:         "docs/architecture",
			Format:      render.FormatPNG,
			Engine:      engine.KindExec,
			Layout:      "dot",
			Timeout:     30 * time.Second,
			Concurrency: 4,
			Cache:       true,
		},
	}
}

// file mirrors the TOML layout. Pointers distinguish unset from zero.
type file struct {
	Direction *string                      `toml:"direction"`
	Splines   *string                      `toml:"splines"`
	NodeSep   *float64                     `toml:"nodesep"`
	RankSep   *float64                     `toml:"ranksep"`
	Graph     map[string]string            `toml:"graph"`
	Node      map[string]string            `toml:"node"`
	Edge      map[string]string            `toml:"edge"`
	Cluster   map[string]string            `toml:"cluster"`
	Roles     map[string]map[string]string `toml:"roles"`
	Output    struct {
		Dir         *string   `toml:"dir"`
		Format      *string   `toml:"format"`
		Engine      *string   `toml:"engine"`
		Layout      *string   `toml:"layout"`
		Scale       *float64  `toml:"scale"`
		Timeout     *duration `toml:"timeout"`
		Concurrency *int      `toml:"concurrency"`
		Cache       *bool     `toml:"cache"`
		RedisURL    *string   `toml:"redis_url"`
	} `toml:"output"`
}

// duration decodes TOML strings such as "30s" or "2m".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Load reads the config at path on top of [Default]. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML config data on top of [Default] and validates the result.
func Parse(data []byte) (*Config, error) {
	var f file
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	cfg := Default()
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *file) apply(cfg *Config) {
	setIf(&cfg.Direction, f.Direction, func(s string) diagram.Direction { return diagram.Direction(strings.ToUpper(s)) })
	setIf(&cfg.Splines, f.Splines, ident)
	setIf(&cfg.NodeSep, f.NodeSep, ident)
	setIf(&cfg.RankSep, f.RankSep, ident)

	cfg.Graph = cfg.Graph.Merge(f.Graph)
	cfg.Node = cfg.Node.Merge(f.Node)
	cfg.Edge = cfg.Edge.Merge(f.Edge)
	cfg.Cluster = cfg.Cluster.Merge(f.Cluster)
	for role, attrs := range f.Roles {
		cfg.Roles[role] = cfg.Roles[role].Merge(attrs)
	}

	o := &f.Output
	setIf(&cfg.Output.Dir, o.Dir, ident)
	setIf(&cfg.Output.Format, o.Format, strings.ToLower)
	setIf(&cfg.Output.Engine, o.Engine, strings.ToLower)
	setIf(&cfg.Output.Layout, o.Layout, ident)
	setIf(&cfg.Output.Scale, o.Scale, ident)
	setIf(&cfg.Output.Timeout, o.Timeout, func(d duration) time.Duration { return d.Duration })
	setIf(&cfg.Output.Concurrency, o.Concurrency, ident)
	setIf(&cfg.Output.Cache, o.Cache, ident)
	setIf(&cfg.Output.RedisURL, o.RedisURL, ident)
}

func ident[T any](v T) T { return v }

func setIf[S, D any](dst *D, src *S, conv func(S) D) {
	if src != nil {
		*dst = conv(*src)
	}
}

// Validate checks values that the style and output layers cannot repair.
func (c *Config) Validate() error {
	if !c.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (must be TB, LR, BT or RL)", c.Direction)
	}
	if !diagram.ValidSplines(c.Splines) {
		return errors.New(errors.ErrCodeInvalidAttribute, "invalid splines %q", c.Splines)
	}
	if c.NodeSep < 0 || c.RankSep < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nodesep and ranksep must not be negative")
	}
	if err := render.ValidateFormat(c.Output.Format); err != nil {
		return err
	}
	if err := errors.ValidateFormat(c.Output.Engine, engine.Kinds()); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid engine %q (must be %s)", c.Output.Engine, strings.Join(engine.Kinds(), " or "))
	}
	if c.Output.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	if c.Output.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must not be negative")
	}
	if c.Output.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must not be negative")
	}
	return c.Style().Validate()
}

// Style builds the diagram style described by c.
func (c *Config) Style() diagram.Style {
	s := diagram.DefaultStyle().
		With(diagram.KindGraph, diagram.Attrs{
			"splines": c.Splines,
			"nodesep": formatFloat(c.NodeSep),
			"ranksep": formatFloat(c.RankSep),
		}).
		With(diagram.KindGraph, c.Graph).
		With(diagram.KindNode, c.Node).
		With(diagram.KindEdge, c.Edge).
		With(diagram.KindCluster, c.Cluster)
	s.Direction = c.Direction
	for _, role := range sortedRoles(c.Roles) {
		base := s.Roles[role]
		s = s.WithRole(role, base.Merge(c.Roles[role]))
	}
	return s
}

// EngineOptions returns the engine selection described by the output section.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Kind:    c.Output.Engine,
		Layout:  c.Output.Layout,
		Scale:   c.Output.Scale,
		Timeout: c.Output.Timeout,
	}
}

// formatFloat keeps one decimal for whole numbers, so 1 renders as "1.0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func sortedRoles(roles map[string]diagram.Attrs) []string {
	return diagram.Style{Roles: roles}.RoleNames()
}
