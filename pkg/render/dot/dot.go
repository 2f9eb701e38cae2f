package dot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// edgeRef is an edge whose endpoints have been resolved to concrete nodes.
type edgeRef struct {
	from  *diagram.Node
	to    *diagram.Node
	ltail *diagram.Cluster
	lhead *diagram.Cluster
	attrs diagram.Attrs
}

// Compile converts a Diagram to Graphviz DOT source.
//
// The output is a pure function of the diagram: compiling the same diagram
// twice yields byte-identical text. Edges are resolved before any text is
// produced, so an unknown endpoint never yields partial output. The diagram
// itself is not modified.
func Compile(d *diagram.Diagram) ([]byte, error) {
	if d == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil diagram")
	}

	edges, compound, err := resolveEdges(d)
	if err != nil {
		return nil, err
	}

	style := d.Style()
	graphAttrs := style.Graph.Clone()
	graphAttrs["rankdir"] = string(d.Direction())
	if compound {
		graphAttrs["compound"] = "true"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(d.Title()))
	writeStmt(&buf, 1, "graph", d.Title(), graphAttrs)
	if len(style.Node) > 0 {
		writeStmt(&buf, 1, "node", "", style.Node)
	}
	if len(style.Edge) > 0 {
		writeStmt(&buf, 1, "edge", "", style.Edge)
	}

	for _, e := range d.Roots() {
		writeElement(&buf, d, style, e, 1)
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range edges {
		fmt.Fprintf(&buf, "  %s -> %s", nodeID(r.from), nodeID(r.to))
		if list := attrList("", r.attrs); list != "" {
			fmt.Fprintf(&buf, " [%s]", list)
		}
		buf.WriteString(";\n")
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// resolveEdges resolves every edge endpoint. Cluster endpoints are anchored
// on the cluster's first node and clipped at the cluster border.
func resolveEdges(d *diagram.Diagram) ([]edgeRef, bool, error) {
	style := d.Style()
	edges := d.Edges()
	out := make([]edgeRef, 0, len(edges))
	compound := false

	for _, e := range edges {
		var r edgeRef
		var err error
		if r.from, r.ltail, err = anchor(d, e, e.Source()); err != nil {
			return nil, false, err
		}
		if r.to, r.lhead, err = anchor(d, e, e.Target()); err != nil {
			return nil, false, err
		}

		r.attrs = d.EffectiveEdgeAttrs(e).Diff(style.Edge)
		if r.ltail != nil {
			r.attrs["ltail"] = clusterID(r.ltail)
			compound = true
		}
		if r.lhead != nil {
			r.attrs["lhead"] = clusterID(r.lhead)
			compound = true
		}
		out = append(out, r)
	}
	return out, compound, nil
}

func anchor(d *diagram.Diagram, e *diagram.Edge, ep diagram.Endpoint) (*diagram.Node, *diagram.Cluster, error) {
	elem, err := d.Resolve(ep)
	if err != nil {
		return nil, nil, fmt.Errorf("edge %s: %w", e.ID(), err)
	}
	switch v := elem.(type) {
	case *diagram.Node:
		return v, nil, nil
	case *diagram.Cluster:
		n, ok := v.FirstNode()
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeUnknownEndpoint,
				"edge %s: cluster %q has no node to attach to", e.ID(), v.Name())
		}
		return n, v, nil
	}
	return nil, nil, errors.New(errors.ErrCodeUnknownEndpoint, "edge %s: unsupported endpoint", e.ID())
}

func writeElement(buf *bytes.Buffer, d *diagram.Diagram, style diagram.Style, e diagram.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := e.(type) {
	case *diagram.Node:
		attrs := d.EffectiveAttrs(v).Diff(style.Node)
		if v.Icon() != "" {
			if _, ok := attrs["class"]; !ok {
				attrs["class"] = v.Icon()
			}
		}
		label := ownLabel(v.Attrs(), v.Label())
		delete(attrs, "label")
		if label == "" {
			attrs["label"] = ""
		}
		fmt.Fprintf(buf, "%s%s [%s];\n", indent, nodeID(v), attrList(label, attrs))
	case *diagram.Cluster:
		fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, clusterID(v))
		attrs := d.EffectiveAttrs(v)
		label := ownLabel(v.Attrs(), v.Name())
		delete(attrs, "label")
		if label == "" {
			attrs["label"] = ""
		}
		writeStmt(buf, depth+1, "graph", label, attrs)
		for _, child := range v.Children() {
			writeElement(buf, d, style, child, depth+1)
		}
		fmt.Fprintf(buf, "%s}\n", indent)
	}
}

// ownLabel returns the element's own "label" attribute, or fallback. Labels
// are never inherited from enclosing clusters.
func ownLabel(own diagram.Attrs, fallback string) string {
	if l, ok := own["label"]; ok {
		return l
	}
	return fallback
}

func writeStmt(buf *bytes.Buffer, depth int, kind, label string, attrs diagram.Attrs) {
	fmt.Fprintf(buf, "%s%s [%s];\n", strings.Repeat("  ", depth), kind, attrList(label, attrs))
}

// attrList formats label first (when non-empty) followed by attrs in key order.
func attrList(label string, attrs diagram.Attrs) string {
	parts := make([]string, 0, len(attrs)+1)
	if label != "" {
		parts = append(parts, "label="+quote(label))
	}
	for _, k := range attrs.Keys() {
		if k == "label" && label != "" {
			continue
		}
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

func nodeID(n *diagram.Node) string       { return "n" + n.ID().String() }
func clusterID(c *diagram.Cluster) string { return "cluster_" + c.ID().String() }

// quote renders a DOT attribute value. A value written as "<<...>>" is an
// HTML-like label and passes through as-is; everything else, including "<init>",
// becomes a double-quoted string with embedded newlines turned into DOT line
// breaks.
func quote(v string) string {
	if isHTML(v) {
		return v
	}
	var b strings.Builder
	b.Grow(len(v) + 2)
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	if trailingBackslashes(v)%2 == 1 {
		b.WriteByte('\\')
	}
	b.WriteByte('"')
	return b.String()
}

func isHTML(v string) bool {
	return len(v) >= 4 && strings.HasPrefix(v, "<<") && strings.HasSuffix(v, ">>")
}

func trailingBackslashes(v string) int {
	n := 0
	for i := len(v) - 1; i >= 0 && v[i] == '\\'; i-- {
		n++
	}
	return n
}
