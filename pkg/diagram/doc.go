// Package diagram is the in-memory model of an architecture diagram.
//
// # Overview
//
// A [Diagram] holds nodes, nested clusters and directed edges. Every element
// carries a map of Graphviz style attributes ([Attrs]), checked against a fixed
// vocabulary per element kind when the element is created.
//
//	d, _ := diagram.New("Checkout", diagram.DefaultStyle())
//	b := diagram.NewBuilder(d)
//	var api, worker *diagram.Node
//	b.Cluster("Backend", nil, func() {
//	    api = b.Node("API", nil)
//	    worker = b.Node("Worker", nil)
//	}, diagram.WithRole(diagram.RoleBackend))
//	b.Edge(api, worker, diagram.Attrs{"label": "dispatch"})
//
// # Containment
//
// Clusters form a tree: each node or cluster has at most one parent and the
// relation is acyclic. The tree is kept in a [github.com/dominikbraun/graph]
// directed graph with cycle prevention, so an attachment that would close a
// loop fails with CYCLE_DETECTED. The model is append-only; elements are never
// removed or reparented, and IDs come from one monotonic counter.
//
// # Identity
//
// Edges address elements by [ID], never by label. Two nodes labeled "DbContext"
// in different clusters are unrelated. Endpoints are resolved when the diagram
// is compiled; a reference from another diagram or an ID that was never
// allocated fails with UNKNOWN_ENDPOINT at that point.
//
// # Styles
//
// A [Style] carries the defaults per kind and named cluster role presets. The
// effective style of an element is resolved closest-scope-wins, per key: see
// [Diagram.EffectiveAttrs].
package diagram
