// Package manifest declares diagrams in TOML instead of Go.
//
// A manifest holds any number of [[diagram]] tables. Each one lists its
// clusters, nodes and edges by key; keys are local to the diagram and shared
// by clusters and nodes, so an edge may target either.
//
//	[[diagram]]
//	name  = "backend"
//	title = "Backend"
//
//	[[diagram.cluster]]
//	key  = "be"
//	name = "Backend"
//	role = "backend"
//
//	[[diagram.node]]
//	key     = "api"
//	label   = "API"
//	cluster = "be"
//
//	[[diagram.node]]
//	key     = "worker"
//	label   = "Worker"
//	cluster = "be"
//	icon    = "dotnet"
//
//	[[diagram.edge]]
//	from  = "api"
//	to    = "worker"
//	attrs = { label = "dispatch" }
//
// Clusters are created in declaration order and must be declared before any
// cluster or node refers to them as parent. Nodes follow in their own
// declaration order, then edges.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Manifest is a decoded manifest file.
type Manifest struct {
	Diagrams []Diagram `toml:"diagram"`
}

// Diagram declares one diagram.
type Diagram struct {
	Name        string            `toml:"name"`
	Title       string            `toml:"title"`
	Description string            `toml:"description"`
	Direction   string            `toml:"direction"`
	Graph       map[string]string `toml:"graph"`
	Clusters    []Cluster         `toml:"cluster"`
	Nodes       []Node            `toml:"node"`
	Edges       []Edge            `toml:"edge"`
}

// Cluster declares a cluster. Parent is the key of the enclosing cluster.
type Cluster struct {
	Key       string            `toml:"key"`
	Name      string            `toml:"name"`
	Role      string            `toml:"role"`
	Parent    string            `toml:"parent"`
	Attrs     map[string]string `toml:"attrs"`
	NodeAttrs map[string]string `toml:"node_attrs"`
}

// Node declares a node or, with Junction set, a junction.
type Node struct {
	Key      string            `toml:"key"`
	Label    string            `toml:"label"`
	Cluster  string            `toml:"cluster"`
	Icon     string            `toml:"icon"`
	Junction bool              `toml:"junction"`
	Attrs    map[string]string `toml:"attrs"`
}

// Edge connects two keys.
type Edge struct {
	From  string            `toml:"from"`
	To    string            `toml:"to"`
	Attrs map[string]string `toml:"attrs"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "manifest %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest data and checks names and keys. Attribute vocabulary
// and endpoint references are checked when a diagram is built.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidManifest, "unknown manifest keys: %s", strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks diagram names and key uniqueness.
func (m *Manifest) Validate() error {
	names := make(map[string]bool, len(m.Diagrams))
	for i := range m.Diagrams {
		d := &m.Diagrams[i]
		if err := errors.ValidateDiagramName(d.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "diagram #%d", i+1)
		}
		if names[d.Name] {
			return errors.New(errors.ErrCodeInvalidManifest, "duplicate diagram %q", d.Name)
		}
		names[d.Name] = true

		keys := make(map[string]bool, len(d.Clusters)+len(d.Nodes))
		claim := func(kind, key string) error {
			if key == "" {
				return errors.New(errors.ErrCodeInvalidManifest, "diagram %q: %s without key", d.Name, kind)
			}
			if keys[key] {
				return errors.New(errors.ErrCodeInvalidManifest, "diagram %q: duplicate key %q", d.Name, key)
			}
			keys[key] = true
			return nil
		}
		for _, c := range d.Clusters {
			if err := claim("cluster", c.Key); err != nil {
				return err
			}
		}
		for _, n := range d.Nodes {
			if err := claim("node", n.Key); err != nil {
				return err
			}
		}
	}
	return nil
}

// Build composes the diagram on top of style.
func (md Diagram) Build(style diagram.Style) (*diagram.Diagram, error) {
	title := md.Title
	if title == "" {
		title = md.Name
	}
	opts := []diagram.Option{diagram.WithName(md.Name)}
	if md.Direction != "" {
		opts = append(opts, diagram.WithDirection(diagram.Direction(strings.ToUpper(md.Direction))))
	}
	if len(md.Graph) > 0 {
		opts = append(opts, diagram.WithGraphAttrs(md.Graph))
	}

	d, err := diagram.New(title, style, opts...)
	if err != nil {
		return nil, fmt.Errorf("diagram %q: %w", md.Name, err)
	}

	clusters := make(map[string]*diagram.Cluster, len(md.Clusters))
	endpoints := make(map[string]diagram.Endpoint, len(md.Clusters)+len(md.Nodes))

	parentOf := func(what, key string) (*diagram.Cluster, error) {
		if key == "" {
			return nil, nil
		}
		c, ok := clusters[key]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidManifest,
				"diagram %q: %s refers to undeclared cluster %q", md.Name, what, key)
		}
		return c, nil
	}

	for _, mc := range md.Clusters {
		parent, err := parentOf("cluster "+mc.Key, mc.Parent)
		if err != nil {
			return nil, err
		}
		var copts []diagram.ClusterOption
		if mc.Role != "" {
			copts = append(copts, diagram.WithRole(mc.Role))
		}
		if len(mc.NodeAttrs) > 0 {
			copts = append(copts, diagram.WithNodeDefaults(mc.NodeAttrs))
		}
		name := mc.Name
		if name == "" {
			name = mc.Key
		}
		c, err := d.CreateCluster(name, mc.Attrs, parent, copts...)
		if err != nil {
			return nil, fmt.Errorf("diagram %q: cluster %q: %w", md.Name, mc.Key, err)
		}
		clusters[mc.Key] = c
		endpoints[mc.Key] = c
	}

	for _, mn := range md.Nodes {
		parent, err := parentOf("node "+mn.Key, mn.Cluster)
		if err != nil {
			return nil, err
		}
		var n *diagram.Node
		if mn.Junction {
			n, err = d.CreateJunction(mn.Label, mn.Attrs, parent)
		} else {
			var nopts []diagram.NodeOption
			if mn.Icon != "" {
				nopts = append(nopts, diagram.WithIcon(mn.Icon))
			}
			n, err = d.CreateNode(mn.Label, mn.Attrs, parent, nopts...)
		}
		if err != nil {
			return nil, fmt.Errorf("diagram %q: node %q: %w", md.Name, mn.Key, err)
		}
		endpoints[mn.Key] = n
	}

	for i, me := range md.Edges {
		from, ok := endpoints[me.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownEndpoint,
				"diagram %q: edge #%d: unknown source %q", md.Name, i+1, me.From)
		}
		to, ok := endpoints[me.To]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownEndpoint,
				"diagram %q: edge #%d: unknown target %q", md.Name, i+1, me.To)
		}
		if _, err := d.Connect(from, to, me.Attrs); err != nil {
			return nil, fmt.Errorf("diagram %q: edge #%d: %w", md.Name, i+1, err)
		}
	}

	return d, nil
}

// Catalog returns a catalog holding every diagram of m.
func (m *Manifest) Catalog() (*catalog.Catalog, error) {
	c := catalog.New()
	if err := m.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Register adds every diagram of m to c.
func (m *Manifest) Register(c *catalog.Catalog) error {
	for _, md := range m.Diagrams {
		title := md.Title
		if title == "" {
			title = md.Name
		}
		err := c.Add(catalog.Entry{
			Name:        md.Name,
			Title:       title,
			Description: md.Description,
			Build:       md.Build,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
