package diagram

// EffectiveAttrs resolves the style of a node or cluster: the diagram default
// for its kind, overridden key by key by each enclosing cluster from outermost
// to nearest, overridden by the element's own attributes.
//
// Nodes inherit the node defaults of their enclosing clusters; clusters inherit
// their ancestors' own cluster attributes. The label is never inherited: a
// node's label and a cluster's name sit below only the element's own "label"
// attribute.
func (d *Diagram) EffectiveAttrs(e Element) Attrs {
	path := Path(e)
	switch v := e.(type) {
	case *Node:
		layers := make([]Attrs, 0, len(path)+1)
		for _, c := range path {
			layers = append(layers, withoutLabel(c.nodeAttrs))
		}
		layers = append(layers, v.attrs)
		return withoutLabel(d.style.Node).Merge(layers...)
	case *Cluster:
		layers := make([]Attrs, 0, len(path)+1)
		for _, c := range path {
			layers = append(layers, withoutLabel(c.attrs))
		}
		layers = append(layers, v.attrs)
		return withoutLabel(d.style.Cluster).Merge(layers...)
	}
	return Attrs{}
}

func withoutLabel(a Attrs) Attrs {
	if _, ok := a["label"]; !ok {
		return a
	}
	out := a.Clone()
	delete(out, "label")
	return out
}

// EffectiveEdgeAttrs resolves an edge's style: diagram edge defaults
// overridden by the edge's own attributes.
func (d *Diagram) EffectiveEdgeAttrs(e *Edge) Attrs {
	return d.style.Edge.Merge(e.attrs)
}
