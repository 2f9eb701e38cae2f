package diagram

import (
	"maps"
	"slices"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Direction is the rank direction handed to the layout engine.
type Direction string

const (
	TopToBottom Direction = "TB"
	LeftToRight Direction = "LR"
	BottomToTop Direction = "BT"
	RightToLeft Direction = "RL"
)

// Valid reports whether d is one of the four rank directions.
func (d Direction) Valid() bool {
	switch d {
	case TopToBottom, LeftToRight, BottomToTop, RightToLeft:
		return true
	}
	return false
}

// Edge routing styles understood by the dot layout.
const (
	SplinesOrtho    = "ortho"
	SplinesPolyline = "polyline"
	SplinesSpline   = "spline"
	SplinesCurved   = "curved"
	SplinesLine     = "line"
)

// ValidSplines reports whether s is a supported edge routing style.
func ValidSplines(s string) bool {
	switch s {
	case SplinesOrtho, SplinesPolyline, SplinesSpline, SplinesCurved, SplinesLine:
		return true
	}
	return false
}

// Style is the set of presets a Diagram is built with: default attributes per
// element kind plus named cluster role presets. A Diagram keeps its own copy,
// so one Style value may seed any number of diagrams concurrently.
type Style struct {
	Direction Direction
	Graph     Attrs
	Node      Attrs
	Edge      Attrs
	Cluster   Attrs
	Roles     map[string]Attrs
}

// Clone returns a deep copy of s.
func (s Style) Clone() Style {
	out := Style{
		Direction: s.Direction,
		Graph:     s.Graph.Clone(),
		Node:      s.Node.Clone(),
		Edge:      s.Edge.Clone(),
		Cluster:   s.Cluster.Clone(),
		Roles:     make(map[string]Attrs, len(s.Roles)),
	}
	for name, attrs := range s.Roles {
		out.Roles[name] = attrs.Clone()
	}
	return out
}

// Defaults returns the default attributes for kind.
func (s Style) Defaults(kind Kind) Attrs {
	switch kind {
	case KindGraph:
		return s.Graph
	case KindNode:
		return s.Node
	case KindEdge:
		return s.Edge
	case KindCluster:
		return s.Cluster
	}
	return nil
}

// With returns a copy of s whose defaults for kind are overridden by attrs.
func (s Style) With(kind Kind, attrs Attrs) Style {
	out := s.Clone()
	switch kind {
	case KindGraph:
		out.Graph = out.Graph.Merge(attrs)
	case KindNode:
		out.Node = out.Node.Merge(attrs)
	case KindEdge:
		out.Edge = out.Edge.Merge(attrs)
	case KindCluster:
		out.Cluster = out.Cluster.Merge(attrs)
	}
	return out
}

// WithRole returns a copy of s with the role preset replaced by attrs.
func (s Style) WithRole(name string, attrs Attrs) Style {
	out := s.Clone()
	out.Roles[name] = attrs.Clone()
	return out
}

// RoleNames returns the preset role names in sorted order.
func (s Style) RoleNames() []string {
	return slices.Sorted(maps.Keys(s.Roles))
}

// Validate checks the direction, routing style and every attribute key.
func (s Style) Validate() error {
	if s.Direction != "" && !s.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction %q (must be TB, LR, BT or RL)", s.Direction)
	}
	if sp, ok := s.Graph["splines"]; ok && !ValidSplines(sp) {
		return errors.New(errors.ErrCodeInvalidAttribute, "invalid splines %q", sp)
	}
	for _, kind := range []Kind{KindGraph, KindNode, KindEdge, KindCluster} {
		if err := s.Defaults(kind).Validate(kind); err != nil {
			return err
		}
	}
	for _, name := range s.RoleNames() {
		if err := s.Roles[name].Validate(KindCluster); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidAttribute, err, "role %q", name)
		}
	}
	return nil
}

// Cluster role names shipped with DefaultStyle.
const (
	RoleFrontend       = "frontend"
	RoleBackend        = "backend"
	RoleDatabase       = "database"
	RoleCloud          = "cloud"
	RoleObservability  = "observability"
	RolePresentation   = "presentation"
	RoleInfrastructure = "infrastructure"
	RoleApplication    = "application"
	RoleDomain         = "domain"
)

func serviceRole(bg string) Attrs {
	return Attrs{
		"fontsize":  "13",
		"fontname":  "Arial Bold",
		"fontcolor": "#1a1a1a",
		"style":     "rounded",
		"bgcolor":   bg,
		"penwidth":  "2",
		"margin":    "16",
	}
}

func layerRole(bg string) Attrs {
	return Attrs{
		"fontsize":  "12",
		"fontname":  "Arial Bold",
		"fontcolor": "#1a1a1a",
		"style":     "rounded",
		"bgcolor":   bg,
		"penwidth":  "2",
		"margin":    "12",
	}
}

// DefaultStyle returns the house style used for architecture documentation:
// top-to-bottom, orthogonal edges, Arial text and pastel cluster roles.
func DefaultStyle() Style {
	return Style{
		Direction: TopToBottom,
		Graph: Attrs{
			"fontsize": "18",
			"fontname": "Arial Bold",
			"bgcolor":  "white",
			"pad":      "0.4",
			"splines":  SplinesOrtho,
			"nodesep":  "0.8",
			"ranksep":  "1.0",
		},
		Node: Attrs{
			"fontsize":  "12",
			"fontname":  "Arial",
			"fontcolor": "#333333",
		},
		Edge: Attrs{
			"fontsize":  "11",
			"fontname":  "Arial",
			"fontcolor": "#555555",
			"penwidth":  "1.5",
		},
		Cluster: Attrs{},
		Roles: map[string]Attrs{
			RoleFrontend:       serviceRole("#e3f2fd"),
			RoleBackend:        serviceRole("#e8f5e9"),
			RoleDatabase:       serviceRole("#fff3e0"),
			RoleCloud:          serviceRole("#e1f5fe"),
			RoleObservability:  serviceRole("#f3e5f5"),
			RolePresentation:   layerRole("#bbdefb"),
			RoleInfrastructure: layerRole("#c8e6c9"),
			RoleApplication:    layerRole("#ffe0b2"),
			RoleDomain:         layerRole("#ffcdd2"),
		},
	}
}
