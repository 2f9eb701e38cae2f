package diagram

import (
	"iter"
	"slices"
)

// Walk returns a depth-first, pre-order sequence of every node and cluster in
// insertion order, paired with the enclosing clusters from outermost to nearest.
// The sequence holds no state of its own and may be ranged over any number of times.
func (d *Diagram) Walk() iter.Seq2[Element, []*Cluster] {
	return func(yield func(Element, []*Cluster) bool) {
		walk(d.roots, nil, yield)
	}
}

func walk(elems []Element, path []*Cluster, yield func(Element, []*Cluster) bool) bool {
	for _, e := range elems {
		if !yield(e, slices.Clone(path)) {
			return false
		}
		if c, ok := e.(*Cluster); ok {
			if !walk(c.children, append(path, c), yield) {
				return false
			}
		}
	}
	return true
}

// Nodes returns a sequence over the diagram's nodes in walk order.
func (d *Diagram) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for e := range d.Walk() {
			if n, ok := e.(*Node); ok && !yield(n) {
				return
			}
		}
	}
}

// Path returns the clusters enclosing e, outermost first.
func Path(e Element) []*Cluster {
	var path []*Cluster
	for c := e.Parent(); c != nil; c = c.parent {
		path = append(path, c)
	}
	slices.Reverse(path)
	return path
}
