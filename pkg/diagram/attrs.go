package diagram

import (
	"maps"
	"slices"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Kind identifies which style vocabulary and default scope an attribute set belongs to.
type Kind int

const (
	KindGraph Kind = iota
	KindNode
	KindCluster
	KindEdge
)

func (k Kind) String() string {
	switch k {
	case KindGraph:
		return "graph"
	case KindNode:
		return "node"
	case KindCluster:
		return "cluster"
	case KindEdge:
		return "edge"
	}
	return "unknown"
}

// Attrs maps Graphviz attribute names to values.
// A nil Attrs is a valid empty set.
type Attrs map[string]string

// Clone returns a copy of a. The copy is never nil.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	maps.Copy(out, a)
	return out
}

// Merge returns a copy of a overridden key-by-key by each of over in order.
func (a Attrs) Merge(over ...Attrs) Attrs {
	out := a.Clone()
	for _, o := range over {
		maps.Copy(out, o)
	}
	return out
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

// Diff returns the entries of a whose value is absent from or different in base.
func (a Attrs) Diff(base Attrs) Attrs {
	out := Attrs{}
	for k, v := range a {
		if bv, ok := base[k]; !ok || bv != v {
			out[k] = v
		}
	}
	return out
}

func set(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// Recognized Graphviz attributes per element kind.
var vocabulary = map[Kind]map[string]bool{
	KindGraph: set(
		"bgcolor", "center", "compound", "concentrate", "dpi", "fontcolor", "fontname",
		"fontsize", "label", "labeljust", "labelloc", "layout", "margin", "newrank",
		"nodesep", "ordering", "outputorder", "pad", "rank", "rankdir", "ranksep",
		"ratio", "size", "splines", "style",
	),
	KindNode: set(
		"class", "color", "fillcolor", "fixedsize", "fontcolor", "fontname", "fontsize",
		"group", "height", "image", "imagepos", "imagescale", "label", "labelloc",
		"margin", "penwidth", "peripheries", "shape", "style", "tooltip", "URL",
		"width", "xlabel",
	),
	KindCluster: set(
		"bgcolor", "class", "color", "fillcolor", "fontcolor", "fontname", "fontsize",
		"label", "labeljust", "labelloc", "margin", "pencolor", "penwidth",
		"peripheries", "style", "tooltip", "URL",
	),
	KindEdge: set(
		"arrowhead", "arrowsize", "arrowtail", "class", "color", "constraint", "dir",
		"fontcolor", "fontname", "fontsize", "headlabel", "label", "labelfontsize",
		"lhead", "ltail", "minlen", "penwidth", "style", "taillabel", "tooltip",
		"weight", "xlabel",
	),
}

// Recognized reports whether key belongs to the style vocabulary of kind.
func Recognized(kind Kind, key string) bool {
	return vocabulary[kind][key]
}

// Validate checks every key of a against the vocabulary of kind.
// The first offending key, in sorted order, is reported as INVALID_ATTRIBUTE.
func (a Attrs) Validate(kind Kind) error {
	for _, k := range a.Keys() {
		if !Recognized(kind, k) {
			return errors.New(errors.ErrCodeInvalidAttribute, "unrecognized %s attribute %q", kind, k)
		}
	}
	return nil
}
