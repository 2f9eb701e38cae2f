package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render/dot"
)

const backendManifest = `
[[diagram]]
name      = "backend"
title     = "Backend"
direction = "lr"

[diagram.graph]
ranksep = "0.8"

[[diagram.cluster]]
key  = "be"
name = "Backend"
role = "backend"

[[diagram.cluster]]
key    = "jobs"
name   = "Jobs"
parent = "be"
node_attrs = { shape = "box" }

[[diagram.node]]
key     = "api"
label   = "API"
cluster = "be"

[[diagram.node]]
key     = "worker"
label   = "Worker"
cluster = "jobs"
icon    = "dotnet"

[[diagram.node]]
key      = "bus"
label    = "Bus"
junction = true

[[diagram.edge]]
from  = "api"
to    = "worker"
attrs = { label = "dispatch" }

[[diagram.edge]]
from = "bus"
to   = "jobs"

[[diagram]]
name = "empty"
`

func TestParseAndBuild(t *testing.T) {
	m, err := Parse([]byte(backendManifest))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(m.Diagrams) != 2 {
		t.Fatalf("Diagrams = %d, want 2", len(m.Diagrams))
	}

	d, err := m.Diagrams[0].Build(diagram.DefaultStyle())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if d.Name() != "backend" || d.Title() != "Backend" {
		t.Errorf("Name/Title = %q/%q", d.Name(), d.Title())
	}
	if d.Direction() != diagram.LeftToRight {
		t.Errorf("Direction() = %s, want LR", d.Direction())
	}
	if d.Style().Graph["ranksep"] != "0.8" {
		t.Errorf("graph override not applied: %v", d.Style().Graph)
	}
	if d.NodeCount() != 3 || d.ClusterCount() != 2 || d.EdgeCount() != 2 {
		t.Errorf("nodes/clusters/edges = %d/%d/%d", d.NodeCount(), d.ClusterCount(), d.EdgeCount())
	}

	var worker, bus *diagram.Node
	for n := range d.Nodes() {
		switch n.Label() {
		case "Worker":
			worker = n
		case "":
			bus = n
		}
	}
	if worker == nil || worker.Icon() != "dotnet" {
		t.Fatal("worker node missing its icon")
	}
	if got := d.EffectiveAttrs(worker)["shape"]; got != "box" {
		t.Errorf("worker shape = %q, want cluster node default box", got)
	}
	if path := diagram.Path(worker); len(path) != 2 || path[0].Name() != "Backend" {
		t.Errorf("worker path = %v", path)
	}
	if bus == nil || !bus.IsJunction() {
		t.Error("junction flag not honoured")
	}

	if _, err := dot.Compile(d); err != nil {
		t.Errorf("Compile() error: %v", err)
	}

	empty, err := m.Diagrams[1].Build(diagram.DefaultStyle())
	if err != nil {
		t.Fatalf("Build(empty) error: %v", err)
	}
	if empty.Title() != "empty" {
		t.Errorf("Title() = %q, want name fallback", empty.Title())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", "[[diagram]\n", errors.ErrCodeInvalidManifest},
		{"unknown key", "[[diagram]]\nname = \"a\"\ncolour = \"red\"", errors.ErrCodeInvalidManifest},
		{"bad name", "[[diagram]]\nname = \"Bad Name\"", errors.ErrCodeInvalidManifest},
		{"duplicate diagram", "[[diagram]]\nname = \"a\"\n[[diagram]]\nname = \"a\"", errors.ErrCodeInvalidManifest},
		{"missing key", "[[diagram]]\nname = \"a\"\n[[diagram.node]]\nlabel = \"x\"", errors.ErrCodeInvalidManifest},
		{
			"duplicate key",
			"[[diagram]]\nname = \"a\"\n[[diagram.cluster]]\nkey = \"x\"\n[[diagram.node]]\nkey = \"x\"",
			errors.ErrCodeInvalidManifest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		md   Diagram
		code errors.Code
	}{
		{
			name: "unknown edge source",
			md: Diagram{
				Name:  "a",
				Nodes: []Node{{Key: "x"}},
				Edges: []Edge{{From: "ghost", To: "x"}},
			},
			code: errors.ErrCodeUnknownEndpoint,
		},
		{
			name: "unknown edge target",
			md: Diagram{
				Name:  "a",
				Nodes: []Node{{Key: "x"}},
				Edges: []Edge{{From: "x", To: "ghost"}},
			},
			code: errors.ErrCodeUnknownEndpoint,
		},
		{
			name: "undeclared node cluster",
			md: Diagram{
				Name:  "a",
				Nodes: []Node{{Key: "x", Cluster: "nowhere"}},
			},
			code: errors.ErrCodeInvalidManifest,
		},
		{
			name: "parent declared later",
			md: Diagram{
				Name: "a",
				Clusters: []Cluster{
					{Key: "inner", Parent: "outer"},
					{Key: "outer"},
				},
			},
			code: errors.ErrCodeInvalidManifest,
		},
		{
			name: "bad attribute",
			md: Diagram{
				Name:  "a",
				Nodes: []Node{{Key: "x", Attrs: map[string]string{"colour": "red"}}},
			},
			code: errors.ErrCodeInvalidAttribute,
		},
		{
			name: "unknown role",
			md: Diagram{
				Name:     "a",
				Clusters: []Cluster{{Key: "c", Role: "mainframe"}},
			},
			code: errors.ErrCodeInvalidAttribute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := tt.md.Build(diagram.DefaultStyle())
			if !errors.Is(err, tt.code) {
				t.Errorf("Build() error = %v, want %s", err, tt.code)
			}
			if d != nil {
				t.Error("Build() must not return a diagram on error")
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	m, err := Parse([]byte(backendManifest))
	if err != nil {
		t.Fatal(err)
	}
	c, err := m.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error: %v", err)
	}
	if got := strings.Join(c.Names(), ","); got != "backend,empty" {
		t.Errorf("Names() = %s", got)
	}
	d, err := c.Build("backend", diagram.DefaultStyle())
	if err != nil || d.Name() != "backend" {
		t.Errorf("Build() = %v, %v", d, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagrams.toml")
	if err := os.WriteFile(path, []byte(backendManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("Load() error: %v", err)
	}
	if _, err := Load(path + ".missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v, want NOT_FOUND", err)
	}
}
