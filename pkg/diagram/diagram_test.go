package diagram

import (
	"testing"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

func newTestDiagram(t *testing.T) *Diagram {
	t.Helper()
	d, err := New("Test", DefaultStyle())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return d
}

func TestNew(t *testing.T) {
	d, err := New("Test", DefaultStyle(), WithDirection(LeftToRight), WithName("test"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if d.Direction() != LeftToRight {
		t.Errorf("Direction() = %v, want LR", d.Direction())
	}
	if d.Name() != "test" || d.Title() != "Test" {
		t.Errorf("Name/Title = %q/%q", d.Name(), d.Title())
	}

	if _, err := New("Bad", DefaultStyle(), WithDirection("sideways")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New() with bad direction = %v, want INVALID_INPUT", err)
	}
	if _, err := New("Bad", DefaultStyle(), WithGraphAttrs(Attrs{"colour": "red"})); !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Errorf("New() with bad graph attr = %v, want INVALID_ATTRIBUTE", err)
	}
}

func TestNewCopiesStyle(t *testing.T) {
	style := DefaultStyle()
	d, _ := New("Test", style)
	style.Node["fontsize"] = "99"

	if got := d.Style().Node["fontsize"]; got != "12" {
		t.Errorf("diagram style changed with caller's style: fontsize = %q", got)
	}
}

func TestCreateNodeInvalidAttribute(t *testing.T) {
	d := newTestDiagram(t)

	_, err := d.CreateNode("API", Attrs{"colour": "red"}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Fatalf("CreateNode() error = %v, want INVALID_ATTRIBUTE", err)
	}
	if d.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", d.NodeCount())
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	d := newTestDiagram(t)

	a, _ := d.CreateNode("a", nil, nil)
	c, _ := d.CreateCluster("c", nil, nil)
	b, _ := d.CreateNode("b", nil, c)
	e, _ := d.Connect(a, b, nil)

	ids := []ID{a.ID(), c.ID(), b.ID(), e.ID()}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ids not increasing: %v", ids)
		}
	}
	if a.ID() == 0 {
		t.Error("element IDs must start after the root vertex")
	}
}

func TestCreateClusterParent(t *testing.T) {
	d := newTestDiagram(t)
	other := newTestDiagram(t)

	foreign, _ := other.CreateCluster("Foreign", nil, nil)
	if _, err := d.CreateCluster("Child", nil, foreign); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateCluster() with foreign parent = %v, want INVALID_INPUT", err)
	}

	outer, _ := d.CreateCluster("Outer", nil, nil)
	inner, err := d.CreateCluster("Inner", nil, outer)
	if err != nil {
		t.Fatalf("CreateCluster() error: %v", err)
	}
	if inner.Parent() != outer {
		t.Error("inner.Parent() != outer")
	}
	if got := outer.Children(); len(got) != 1 || got[0] != inner {
		t.Errorf("outer.Children() = %v", got)
	}
	if got := d.Roots(); len(got) != 1 || got[0] != outer {
		t.Errorf("Roots() = %v", got)
	}
}

func TestCreateClusterRole(t *testing.T) {
	d := newTestDiagram(t)

	c, err := d.CreateCluster("Frontend", Attrs{"bgcolor": "#ffffff"}, nil, WithRole(RoleFrontend))
	if err != nil {
		t.Fatalf("CreateCluster() error: %v", err)
	}
	attrs := c.Attrs()
	if attrs["bgcolor"] != "#ffffff" {
		t.Errorf("explicit bgcolor should override role preset, got %q", attrs["bgcolor"])
	}
	if attrs["margin"] != "16" {
		t.Errorf("role preset margin missing, got %q", attrs["margin"])
	}

	if _, err := d.CreateCluster("X", nil, nil, WithRole("nope")); !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Errorf("unknown role error = %v, want INVALID_ATTRIBUTE", err)
	}
	if _, err := d.CreateCluster("X", Attrs{"shape": "box"}, nil); !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Errorf("node-only attribute on cluster = %v, want INVALID_ATTRIBUTE", err)
	}
	if _, err := d.CreateCluster("X", nil, nil, WithNodeDefaults(Attrs{"bgcolor": "red"})); !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Errorf("cluster-only attribute in node defaults = %v, want INVALID_ATTRIBUTE", err)
	}
}

func TestAttachRejectsCycles(t *testing.T) {
	d := newTestDiagram(t)

	a, _ := d.CreateCluster("a", nil, nil)
	b, _ := d.CreateCluster("b", nil, a)

	// Reparenting is not part of the public API; attach is the single
	// mutation point and must refuse loops on its own.
	if err := d.attach(b, a); !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("attach(b, a) = %v, want CYCLE_DETECTED", err)
	}
	if err := d.attach(a, a); !errors.Is(err, errors.ErrCodeCycleDetected) {
		t.Errorf("attach(a, a) = %v, want CYCLE_DETECTED", err)
	}
	if a.Parent() != nil {
		t.Error("failed attach must not change the parent")
	}
}

func TestAttachRejectsSecondOwner(t *testing.T) {
	d := newTestDiagram(t)

	a, _ := d.CreateCluster("a", nil, nil)
	b, _ := d.CreateCluster("b", nil, nil)
	n, _ := d.CreateNode("n", nil, a)

	if err := d.attach(b, n); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("attach(b, n) = %v, want INVALID_INPUT", err)
	}
	if n.Parent() != a || len(b.Children()) != 0 {
		t.Error("second owner must not be recorded")
	}
}

func TestConnectMultiplicity(t *testing.T) {
	d := newTestDiagram(t)
	a, _ := d.CreateNode("a", nil, nil)
	b, _ := d.CreateNode("b", nil, nil)

	e1, err := d.Connect(a, b, Attrs{"style": "dashed"})
	if err != nil {
		t.Fatalf("Connect() error: %v", err)
	}
	e2, _ := d.Connect(a, b, Attrs{"style": "dashed"})

	edges := d.Edges()
	if len(edges) != 2 {
		t.Fatalf("len(Edges()) = %d, want 2", len(edges))
	}
	if e1 == e2 || e1.ID() == e2.ID() {
		t.Error("parallel edges must be distinct")
	}
	if edges[0].Source() != Endpoint(a) || edges[0].Target() != Endpoint(b) {
		t.Error("edge endpoints not preserved in order")
	}
	if edges[0].Attrs()["style"] != "dashed" {
		t.Errorf("edge attrs = %v", edges[0].Attrs())
	}

	if _, err := d.Connect(a, b, Attrs{"shape": "box"}); !errors.Is(err, errors.ErrCodeInvalidAttribute) {
		t.Errorf("Connect() with node attribute = %v, want INVALID_ATTRIBUTE", err)
	}
}

func TestChain(t *testing.T) {
	d := newTestDiagram(t)
	a, _ := d.CreateNode("a", nil, nil)
	b, _ := d.CreateNode("b", nil, nil)
	c, _ := d.CreateNode("c", nil, nil)

	edges, err := d.Chain(nil, a, b, c)
	if err != nil {
		t.Fatalf("Chain() error: %v", err)
	}
	if len(edges) != 2 || edges[1].Source() != Endpoint(b) || edges[1].Target() != Endpoint(c) {
		t.Errorf("Chain() = %v", edges)
	}
	if _, err := d.Chain(nil, a); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Chain() with one endpoint = %v, want INVALID_INPUT", err)
	}
}

func TestResolve(t *testing.T) {
	d := newTestDiagram(t)
	other := newTestDiagram(t)

	a, _ := d.CreateNode("a", nil, nil)
	c, _ := d.CreateCluster("c", nil, nil)
	e, _ := d.Connect(a, c, nil)
	foreign, _ := other.CreateNode("a", nil, nil)
	var nilNode *Node

	tests := []struct {
		name    string
		ep      Endpoint
		want    Element
		wantErr bool
	}{
		{"node", a, a, false},
		{"cluster", c, c, false},
		{"bare id", a.ID(), a, false},
		{"never allocated", ID(999), nil, true},
		{"edge id", e.ID(), nil, true},
		{"foreign diagram", foreign, nil, true},
		{"nil", nil, nil, true},
		{"typed nil", nilNode, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Resolve(tt.ep)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeUnknownEndpoint) {
					t.Errorf("Resolve() error = %v, want UNKNOWN_ENDPOINT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSameLabelsAreDistinct(t *testing.T) {
	d := newTestDiagram(t)
	sql, _ := d.CreateCluster("SQL Server", nil, nil)
	pg, _ := d.CreateCluster("PostgreSQL", nil, nil)
	a, _ := d.CreateNode("DbContext", nil, sql)
	b, _ := d.CreateNode("DbContext", nil, pg)

	if a.ID() == b.ID() {
		t.Fatal("nodes with equal labels must have distinct IDs")
	}
	e, _ := d.Connect(a, b, nil)
	src, _ := d.Resolve(e.Source())
	dst, _ := d.Resolve(e.Target())
	if src != Element(a) || dst != Element(b) {
		t.Error("edge endpoints must resolve by ID, not label")
	}
}

func TestCounts(t *testing.T) {
	d := newTestDiagram(t)
	c, _ := d.CreateCluster("c", nil, nil)
	a, _ := d.CreateNode("a", nil, c)
	j, _ := d.CreateJunction("via", nil, nil)
	_, _ = d.Chain(nil, a, j)

	if d.NodeCount() != 2 || d.ClusterCount() != 1 || d.EdgeCount() != 1 {
		t.Errorf("counts = %d nodes, %d clusters, %d edges", d.NodeCount(), d.ClusterCount(), d.EdgeCount())
	}
	if !j.IsJunction() || j.Attrs()["shape"] != "point" || j.Attrs()["xlabel"] != "via" {
		t.Errorf("junction attrs = %v", j.Attrs())
	}
}
