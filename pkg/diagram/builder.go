package diagram

// Builder composes a Diagram with scoped clusters and sticky errors.
//
// Nodes and clusters are created inside the innermost open cluster scope.
// Cluster scopes are closed with defer, so children attach to the right parent
// even when the scope body returns early or panics. After the first error every
// further call is a no-op returning nil; check [Builder.Err] or
// [Builder.Diagram] once at the end:
//
//	b := diagram.NewBuilder(d)
//	user := b.Node("User", nil)
//	b.Cluster("Backend", nil, func() {
//	    api = b.Node("API", nil)
//	}, diagram.WithRole(diagram.RoleBackend))
//	b.Edge(user, api, nil)
//	d, err := b.Diagram()
type Builder struct {
	d     *Diagram
	scope []*Cluster
	err   error
}

// NewBuilder returns a Builder appending to d.
func NewBuilder(d *Diagram) *Builder {
	return &Builder{d: d}
}

// Err returns the first error encountered, if any.
func (b *Builder) Err() error { return b.err }

// Diagram returns the composed diagram, or the first error encountered.
func (b *Builder) Diagram() (*Diagram, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.d, nil
}

// Current returns the innermost open cluster, or nil at the root.
func (b *Builder) Current() *Cluster {
	if len(b.scope) == 0 {
		return nil
	}
	return b.scope[len(b.scope)-1]
}

// Node creates a node in the current scope.
func (b *Builder) Node(label string, attrs Attrs, opts ...NodeOption) *Node {
	if b.err != nil {
		return nil
	}
	n, err := b.d.CreateNode(label, attrs, b.Current(), opts...)
	b.err = err
	return n
}

// Junction creates an anonymous routing point in the current scope.
func (b *Builder) Junction(label string, attrs Attrs) *Node {
	if b.err != nil {
		return nil
	}
	n, err := b.d.CreateJunction(label, attrs, b.Current())
	b.err = err
	return n
}

// Cluster creates a cluster in the current scope and runs body with the new
// cluster as the current scope.
func (b *Builder) Cluster(name string, attrs Attrs, body func(), opts ...ClusterOption) *Cluster {
	if b.err != nil {
		return nil
	}
	c, err := b.d.CreateCluster(name, attrs, b.Current(), opts...)
	if err != nil {
		b.err = err
		return nil
	}
	if body == nil {
		return c
	}

	depth := len(b.scope)
	b.scope = append(b.scope, c)
	defer func() { b.scope = b.scope[:depth] }()
	body()
	return c
}

// Edge connects source to target.
func (b *Builder) Edge(source, target Endpoint, attrs Attrs) *Edge {
	if b.err != nil {
		return nil
	}
	e, err := b.d.Connect(source, target, attrs)
	b.err = err
	return e
}

// Chain connects each endpoint to the next: Chain(nil, a, b, c) draws a → b → c.
func (b *Builder) Chain(attrs Attrs, endpoints ...Endpoint) []*Edge {
	if b.err != nil {
		return nil
	}
	edges, err := b.d.Chain(attrs, endpoints...)
	b.err = err
	return edges
}
