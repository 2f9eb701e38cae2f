// Package dot compiles architecture diagrams to the Graphviz DOT language.
//
// # Output Shape
//
// [Compile] emits, in order:
//
//   - the digraph header and root graph attributes (title label, rankdir,
//     compound when an edge touches a cluster, the style's graph defaults)
//   - the diagram-wide node and edge defaults
//   - clusters as subgraph cluster_<id> blocks, depth-first in insertion order,
//     with their nodes declared inside
//   - every edge, after all declarations
//
// Nodes are named n<id> and only carry the attributes that differ from the
// diagram-wide node defaults, so the root node [...] statement does the rest.
// Attribute keys are sorted. Labels are always emitted explicitly because
// labels are not identities: two nodes labelled "DbContext" stay distinct.
// A label is the element's own: cluster node defaults and ancestor cluster
// attributes never replace it.
//
// Values are double-quoted. HTML-like labels are opted into by writing the
// whole value as "<<...>>", which is emitted raw; a plain "<init>" stays a
// quoted string.
//
// # Cluster Endpoints
//
// Graphviz edges connect nodes only. An edge whose endpoint is a cluster is
// drawn to the cluster's first node and clipped at the cluster border with
// lhead/ltail.
//
//	src, err := dot.Compile(d)
//	if errors.Is(err, errors.ErrCodeUnknownEndpoint) {
//	    // an edge references something outside the diagram
//	}
package dot
