package diagram

import (
	stderrors "errors"

	"github.com/dominikbraun/graph"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// rootID is the containment-tree vertex standing for the diagram itself.
// Element IDs start at 1.
const rootID ID = 0

// Diagram is the root aggregate of the graph model: a title, a Style, a layout
// direction, the root-level elements and the edge list.
//
// A Diagram is append-only: elements are never removed or reparented.
// It is not safe for concurrent mutation; independent Diagrams share no state.
type Diagram struct {
	title     string
	name      string
	style     Style
	direction Direction

	nextID ID
	tree   graph.Graph[ID, ID]
	index  map[ID]Element
	roots  []Element
	edges  []*Edge
}

// Option configures a Diagram at construction.
type Option func(*Diagram)

// WithDirection overrides the Style's layout direction.
func WithDirection(dir Direction) Option {
	return func(d *Diagram) { d.direction = dir }
}

// WithName sets the diagram's machine name, used for output file names.
func WithName(name string) Option {
	return func(d *Diagram) { d.name = name }
}

// WithGraphAttrs overrides graph-level defaults for this diagram only.
func WithGraphAttrs(attrs Attrs) Option {
	return func(d *Diagram) { d.style.Graph = d.style.Graph.Merge(attrs) }
}

func identity(id ID) ID { return id }

// New creates an empty Diagram. The style is copied, so later changes to the
// caller's Style do not affect the diagram.
func New(title string, style Style, opts ...Option) (*Diagram, error) {
	d := &Diagram{
		title:  title,
		style:  style.Clone(),
		nextID: rootID + 1,
		tree:   graph.New(identity, graph.Directed(), graph.PreventCycles()),
		index:  make(map[ID]Element),
	}
	d.direction = d.style.Direction
	for _, opt := range opts {
		opt(d)
	}
	if d.direction == "" {
		d.direction = TopToBottom
	}
	d.style.Direction = d.direction

	if err := d.style.Validate(); err != nil {
		return nil, err
	}
	if err := d.tree.AddVertex(rootID); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init containment tree")
	}
	return d, nil
}

func (d *Diagram) Title() string        { return d.title }
func (d *Diagram) Name() string         { return d.name }
func (d *Diagram) Direction() Direction { return d.direction }

// Style returns a copy of the diagram's presets.
func (d *Diagram) Style() Style { return d.style.Clone() }

// Roots returns the root-level elements in insertion order.
func (d *Diagram) Roots() []Element {
	out := make([]Element, len(d.roots))
	copy(out, d.roots)
	return out
}

// Edges returns the edges in insertion order.
func (d *Diagram) Edges() []*Edge {
	out := make([]*Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

// Lookup returns the node or cluster with the given ID.
func (d *Diagram) Lookup(id ID) (Element, bool) {
	e, ok := d.index[id]
	return e, ok
}

// NodeCount returns the number of nodes, junctions included.
func (d *Diagram) NodeCount() int {
	n := 0
	for _, e := range d.index {
		if e.Kind() == KindNode {
			n++
		}
	}
	return n
}

// ClusterCount returns the number of clusters.
func (d *Diagram) ClusterCount() int { return len(d.index) - d.NodeCount() }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

func (d *Diagram) allocate() ID {
	id := d.nextID
	d.nextID++
	return id
}

// CreateNode adds a node with a fresh ID under parent, or at the root when parent is nil.
func (d *Diagram) CreateNode(label string, attrs Attrs, parent *Cluster, opts ...NodeOption) (*Node, error) {
	if err := attrs.Validate(KindNode); err != nil {
		return nil, err
	}
	n := &Node{owner: d, label: label, attrs: attrs.Clone()}
	for _, opt := range opts {
		opt(n)
	}
	n.id = d.allocate()
	if err := d.add(parent, n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateJunction adds an anonymous point node used to route edges through a
// labeled intermediate point. The label is drawn next to the point.
func (d *Diagram) CreateJunction(label string, attrs Attrs, parent *Cluster) (*Node, error) {
	if err := attrs.Validate(KindNode); err != nil {
		return nil, err
	}
	base := Attrs{"shape": "point", "width": "0.08"}
	if label != "" {
		base["xlabel"] = label
	}
	n := &Node{owner: d, attrs: base.Merge(attrs), junction: true}
	n.id = d.allocate()
	if err := d.add(parent, n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateCluster adds a cluster under parent, or at the root when parent is nil.
func (d *Diagram) CreateCluster(name string, attrs Attrs, parent *Cluster, opts ...ClusterOption) (*Cluster, error) {
	if err := attrs.Validate(KindCluster); err != nil {
		return nil, err
	}
	c := &Cluster{owner: d, name: name}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.nodeAttrs.Validate(KindNode); err != nil {
		return nil, err
	}
	c.attrs = attrs.Clone()
	if c.role != "" {
		preset, ok := d.style.Roles[c.role]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidAttribute, "unknown cluster role %q", c.role)
		}
		c.attrs = preset.Merge(attrs)
	}
	c.id = d.allocate()
	if err := d.add(parent, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (d *Diagram) add(parent *Cluster, e Element) error {
	if err := d.tree.AddVertex(e.ID()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "add element %d", e.ID())
	}
	if err := d.attach(parent, e); err != nil {
		return err
	}
	d.index[e.ID()] = e
	return nil
}

// attach records parent as the single owner of child. It is the only place the
// containment relation changes, and it refuses cycles and second owners.
func (d *Diagram) attach(parent *Cluster, child Element) error {
	pid := rootID
	if parent != nil {
		if parent.owner != d {
			return errors.New(errors.ErrCodeInvalidInput, "cluster %q belongs to a different diagram", parent.name)
		}
		pid = parent.id
	}
	if child.Parent() != nil {
		return errors.New(errors.ErrCodeInvalidInput, "element %d already belongs to cluster %q", child.ID(), child.Parent().name)
	}

	if err := d.tree.AddEdge(pid, child.ID()); err != nil {
		switch {
		case stderrors.Is(err, graph.ErrEdgeCreatesCycle):
			return errors.New(errors.ErrCodeCycleDetected, "attaching %d under %d would create a containment cycle", child.ID(), pid)
		case stderrors.Is(err, graph.ErrEdgeAlreadyExists):
			return errors.New(errors.ErrCodeInvalidInput, "element %d is already attached under %d", child.ID(), pid)
		default:
			return errors.Wrap(errors.ErrCodeInternal, err, "attach %d under %d", child.ID(), pid)
		}
	}

	switch v := child.(type) {
	case *Node:
		v.parent = parent
	case *Cluster:
		v.parent = parent
	}
	if parent == nil {
		d.roots = append(d.roots, child)
	} else {
		parent.children = append(parent.children, child)
	}
	return nil
}

// Connect appends a directed edge from source to target. Only the attribute
// vocabulary is checked here; endpoints are resolved when the diagram is
// compiled. Connecting the same pair twice yields two edges.
func (d *Diagram) Connect(source, target Endpoint, attrs Attrs) (*Edge, error) {
	if err := attrs.Validate(KindEdge); err != nil {
		return nil, err
	}
	e := &Edge{id: d.allocate(), source: source, target: target, attrs: attrs.Clone()}
	d.edges = append(d.edges, e)
	return e, nil
}

// Chain connects each endpoint to the next with the same attributes,
// returning the created edges in order.
func (d *Diagram) Chain(attrs Attrs, endpoints ...Endpoint) ([]*Edge, error) {
	if len(endpoints) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "chain needs at least two endpoints, got %d", len(endpoints))
	}
	edges := make([]*Edge, 0, len(endpoints)-1)
	for i := 0; i+1 < len(endpoints); i++ {
		e, err := d.Connect(endpoints[i], endpoints[i+1], attrs)
		if err != nil {
			return edges, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// Resolve maps an endpoint to the element it names in this diagram.
// References from another diagram, IDs that were never allocated to a node or
// cluster, and nil references fail with UNKNOWN_ENDPOINT.
func (d *Diagram) Resolve(ep Endpoint) (Element, error) {
	switch v := ep.(type) {
	case nil:
		return nil, errors.New(errors.ErrCodeUnknownEndpoint, "nil endpoint")
	case *Node:
		if v == nil {
			return nil, errors.New(errors.ErrCodeUnknownEndpoint, "nil node endpoint")
		}
	case *Cluster:
		if v == nil {
			return nil, errors.New(errors.ErrCodeUnknownEndpoint, "nil cluster endpoint")
		}
	}

	owner, id := ep.endpoint()
	if owner != nil && owner != d {
		return nil, errors.New(errors.ErrCodeUnknownEndpoint, "element %d belongs to a different diagram", id)
	}
	e, ok := d.index[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownEndpoint, "no node or cluster with id %d", id)
	}
	return e, nil
}
