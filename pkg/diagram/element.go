package diagram

import "strconv"

// ID identifies an element within its Diagram. IDs are allocated from a single
// monotonic counter and never reused, so a stale ID can never alias a newer element.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

func (id ID) endpoint() (*Diagram, ID) { return nil, id }

// Endpoint is anything an Edge can reference: a *Node, a *Cluster, or a bare ID
// of an element in the same Diagram. Endpoints are resolved at compile time.
type Endpoint interface {
	endpoint() (owner *Diagram, id ID)
}

// Element is a member of the containment tree: a *Node or a *Cluster.
type Element interface {
	Endpoint
	ID() ID
	Kind() Kind
	Parent() *Cluster
}

// Node is a single drawable unit. Nodes are immutable once created.
type Node struct {
	owner    *Diagram
	id       ID
	label    string
	attrs    Attrs
	icon     string
	junction bool
	parent   *Cluster
}

func (n *Node) endpoint() (*Diagram, ID) { return n.owner, n.id }

func (n *Node) ID() ID           { return n.id }
func (n *Node) Kind() Kind       { return KindNode }
func (n *Node) Label() string    { return n.label }
func (n *Node) Icon() string     { return n.icon }
func (n *Node) Parent() *Cluster { return n.parent }

// Attrs returns a copy of the node's explicit attributes.
func (n *Node) Attrs() Attrs { return n.attrs.Clone() }

// IsJunction reports whether n is a synthetic routing point rather than a component.
func (n *Node) IsJunction() bool { return n.junction }

// NodeOption configures a Node at creation.
type NodeOption func(*Node)

// WithIcon tags the node with a presentation category such as "dotnet" or "postgres".
func WithIcon(tag string) NodeOption {
	return func(n *Node) { n.icon = tag }
}

// Cluster is a named, styled group of nodes and nested clusters.
type Cluster struct {
	owner     *Diagram
	id        ID
	name      string
	role      string
	attrs     Attrs
	nodeAttrs Attrs
	parent    *Cluster
	children  []Element
}

func (c *Cluster) endpoint() (*Diagram, ID) { return c.owner, c.id }

func (c *Cluster) ID() ID           { return c.id }
func (c *Cluster) Kind() Kind       { return KindCluster }
func (c *Cluster) Name() string     { return c.name }
func (c *Cluster) Role() string     { return c.role }
func (c *Cluster) Parent() *Cluster { return c.parent }

// Attrs returns a copy of the cluster's own attributes, role preset included.
func (c *Cluster) Attrs() Attrs { return c.attrs.Clone() }

// NodeAttrs returns a copy of the node defaults the cluster applies to its descendants.
func (c *Cluster) NodeAttrs() Attrs { return c.nodeAttrs.Clone() }

// Children returns the cluster's direct children in insertion order.
func (c *Cluster) Children() []Element {
	out := make([]Element, len(c.children))
	copy(out, c.children)
	return out
}

// FirstNode returns the first non-junction node found depth-first under c.
func (c *Cluster) FirstNode() (*Node, bool) {
	for _, child := range c.children {
		switch e := child.(type) {
		case *Node:
			if !e.junction {
				return e, true
			}
		case *Cluster:
			if n, ok := e.FirstNode(); ok {
				return n, true
			}
		}
	}
	return nil, false
}

// ClusterOption configures a Cluster at creation.
type ClusterOption func(*Cluster)

// WithRole applies the named role preset from the Diagram's Style. Explicit
// cluster attributes still override the preset key by key.
func WithRole(role string) ClusterOption {
	return func(c *Cluster) { c.role = role }
}

// WithNodeDefaults sets node attributes inherited by every node nested in the cluster.
func WithNodeDefaults(attrs Attrs) ClusterOption {
	return func(c *Cluster) { c.nodeAttrs = attrs.Clone() }
}

// Edge is a directed, styled connection. Parallel edges are distinct values.
type Edge struct {
	id     ID
	source Endpoint
	target Endpoint
	attrs  Attrs
}

func (e *Edge) ID() ID           { return e.id }
func (e *Edge) Source() Endpoint { return e.source }
func (e *Edge) Target() Endpoint { return e.target }
func (e *Edge) Label() string    { return e.attrs["label"] }
func (e *Edge) Attrs() Attrs     { return e.attrs.Clone() }
