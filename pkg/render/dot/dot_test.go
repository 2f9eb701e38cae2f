package dot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

func plainStyle() diagram.Style {
	return diagram.Style{
		Graph: diagram.Attrs{"splines": "ortho"},
		Node:  diagram.Attrs{"fontsize": "12"},
	}
}

func backendDiagram(t *testing.T) *diagram.Diagram {
	t.Helper()
	d, err := diagram.New("Backend", plainStyle())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	b := diagram.NewBuilder(d)
	var api, worker *diagram.Node
	b.Cluster("Backend", diagram.Attrs{"bgcolor": "#e8f5e9"}, func() {
		api = b.Node("API", nil)
		worker = b.Node("Worker", nil, diagram.WithIcon("dotnet"))
	})
	b.Edge(api, worker, diagram.Attrs{"label": "dispatch"})
	if err := b.Err(); err != nil {
		t.Fatalf("build: %v", err)
	}
	return d
}

func TestCompileBackendExample(t *testing.T) {
	got, err := Compile(backendDiagram(t))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := `digraph "Backend" {
  graph [label="Backend", rankdir="TB", splines="ortho"];
  node [fontsize="12"];
  subgraph cluster_1 {
    graph [label="Backend", bgcolor="#e8f5e9"];
    n2 [label="API"];
    n3 [label="Worker", class="dotnet"];
  }

  n2 -> n3 [label="dispatch"];
}
`
	if string(got) != want {
		t.Errorf("Compile() =\n%s\nwant\n%s", got, want)
	}
}

func TestCompileDeterministic(t *testing.T) {
	d, _ := diagram.New("Main", diagram.DefaultStyle())
	b := diagram.NewBuilder(d)
	user := b.Node("User", diagram.Attrs{"shape": "box", "style": "rounded,filled", "fillcolor": "#fff"})
	b.Cluster("Frontend", nil, func() {
		web := b.Node("Angular\nSPA", nil)
		b.Edge(user, web, diagram.Attrs{"label": "HTTPS"})
	}, diagram.WithRole(diagram.RoleFrontend))
	if err := b.Err(); err != nil {
		t.Fatalf("build: %v", err)
	}

	first, err := Compile(d)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, _ := Compile(d)
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, first, again)
		}
	}
	if !strings.Contains(string(first), `label="Angular\nSPA"`) {
		t.Errorf("multi-line label not escaped:\n%s", first)
	}
}

func TestCompileClustersBeforeEdges(t *testing.T) {
	out, err := Compile(backendDiagram(t))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	s := string(out)
	if strings.LastIndex(s, "subgraph") > strings.Index(s, "->") {
		t.Error("edges must follow all declarations")
	}
}

func TestCompileUnknownEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		build func(d, other *diagram.Diagram) error
	}{
		{
			name: "never allocated",
			build: func(d, _ *diagram.Diagram) error {
				a, _ := d.CreateNode("a", nil, nil)
				_, err := d.Connect(a, diagram.ID(999), nil)
				return err
			},
		},
		{
			name: "foreign node",
			build: func(d, other *diagram.Diagram) error {
				a, _ := d.CreateNode("a", nil, nil)
				f, _ := other.CreateNode("f", nil, nil)
				_, err := d.Connect(f, a, nil)
				return err
			},
		},
		{
			name: "empty cluster",
			build: func(d, _ *diagram.Diagram) error {
				a, _ := d.CreateNode("a", nil, nil)
				c, _ := d.CreateCluster("empty", nil, nil)
				_, err := d.Connect(a, c, nil)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := diagram.New("T", plainStyle())
			other, _ := diagram.New("O", plainStyle())
			if err := tt.build(d, other); err != nil {
				t.Fatalf("build: %v", err)
			}
			out, err := Compile(d)
			if !errors.Is(err, errors.ErrCodeUnknownEndpoint) {
				t.Errorf("Compile() error = %v, want UNKNOWN_ENDPOINT", err)
			}
			if out != nil {
				t.Error("Compile() must not return partial output")
			}
		})
	}
}

func TestCompileClusterEndpoint(t *testing.T) {
	d, _ := diagram.New("T", plainStyle())
	user, _ := d.CreateNode("User", nil, nil)
	be, _ := d.CreateCluster("Backend", nil, nil)
	api, _ := d.CreateNode("API", nil, be)
	_, _ = d.Connect(user, be, nil)

	out, err := Compile(d)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `compound="true"`) {
		t.Error("cluster endpoints require compound=true")
	}
	want := "n" + user.ID().String() + " -> n" + api.ID().String() + ` [lhead="cluster_` + be.ID().String() + `"]`
	if !strings.Contains(s, want) {
		t.Errorf("missing %q in\n%s", want, s)
	}
}

func TestCompileParallelEdges(t *testing.T) {
	d, _ := diagram.New("T", plainStyle())
	a, _ := d.CreateNode("a", nil, nil)
	b, _ := d.CreateNode("b", nil, nil)
	_, _ = d.Connect(a, b, nil)
	_, _ = d.Connect(a, b, nil)

	out, _ := Compile(d)
	if n := strings.Count(string(out), "n1 -> n2"); n != 2 {
		t.Errorf("parallel edges emitted %d times, want 2", n)
	}
}

func TestCompileEqualLabels(t *testing.T) {
	d, _ := diagram.New("T", plainStyle())
	sql, _ := d.CreateCluster("SQL Server", nil, nil)
	pg, _ := d.CreateCluster("PostgreSQL", nil, nil)
	_, _ = d.CreateNode("DbContext", nil, sql)
	_, _ = d.CreateNode("DbContext", nil, pg)

	out, _ := Compile(d)
	if n := strings.Count(string(out), `[label="DbContext"]`); n != 2 {
		t.Errorf("DbContext declared %d times, want 2:\n%s", n, out)
	}
}

func TestCompileNodeDeltaAgainstDefaults(t *testing.T) {
	d, _ := diagram.New("T", plainStyle())
	c, _ := d.CreateCluster("c", nil, nil, diagram.WithNodeDefaults(diagram.Attrs{"color": "red"}))
	_, _ = d.CreateNode("same", diagram.Attrs{"fontsize": "12"}, nil)
	_, _ = d.CreateNode("inherits", nil, c)

	out, _ := Compile(d)
	s := string(out)
	if !strings.Contains(s, `n2 [label="same"];`) {
		t.Errorf("attributes equal to the defaults should be omitted:\n%s", s)
	}
	if !strings.Contains(s, `n3 [label="inherits", color="red"];`) {
		t.Errorf("cluster node defaults should be folded into the node:\n%s", s)
	}
}

func TestCompileLabelsAreNotInherited(t *testing.T) {
	d, _ := diagram.New("T", plainStyle())
	outer, _ := d.CreateCluster("Outer", diagram.Attrs{"label": "Outer Label"}, nil,
		diagram.WithNodeDefaults(diagram.Attrs{"label": "inherited"}))
	inner, _ := d.CreateCluster("Inner", nil, outer)
	_, _ = d.CreateNode("API", nil, inner)
	_, _ = d.CreateNode("Worker", diagram.Attrs{"label": "Worker Pool"}, inner)

	out, err := Compile(d)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`graph [label="Outer Label"];`,
		`graph [label="Inner"];`,
		`n3 [label="API"];`,
		`n4 [label="Worker Pool"];`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q in\n%s", want, s)
		}
	}
	if strings.Contains(s, "inherited") {
		t.Errorf("cluster node default label leaked into nested nodes:\n%s", s)
	}
}

func TestCompileUnnamedClusterClearsLabel(t *testing.T) {
	d, _ := diagram.New("Title", plainStyle())
	c, _ := d.CreateCluster("", nil, nil)
	_, _ = d.CreateNode("a", nil, c)

	out, _ := Compile(d)
	if !strings.Contains(string(out), `    graph [label=""];`) {
		t.Errorf("unnamed cluster must not show the diagram title:\n%s", out)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"two\nlines", `"two\nlines"`},
		{"crlf\r\nend", `"crlf\nend"`},
		{"<<b>bold</b>>", "<<b>bold</b>>"},
		{"<init>", `"<init>"`},
		{"<<>", `"<<>"`},
		{`trailing\`, `"trailing\\"`},
		{"", `""`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
