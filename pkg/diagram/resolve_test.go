package diagram

import (
	"testing"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

func TestEffectiveAttrsClosestScopeWins(t *testing.T) {
	style := DefaultStyle().With(KindNode, Attrs{"color": "black", "shape": "box"})
	d, _ := New("Test", style)

	outer, _ := d.CreateCluster("outer", Attrs{"bgcolor": "white", "penwidth": "2"}, nil,
		WithNodeDefaults(Attrs{"color": "blue", "fontsize": "14"}))
	inner, _ := d.CreateCluster("inner", Attrs{"bgcolor": "grey"}, outer,
		WithNodeDefaults(Attrs{"color": "red"}))
	n, _ := d.CreateNode("n", Attrs{"shape": "ellipse"}, inner)
	root, _ := d.CreateNode("root", nil, nil)

	tests := []struct {
		name string
		elem Element
		key  string
		want string
	}{
		{"own value", n, "shape", "ellipse"},
		{"nearest cluster", n, "color", "red"},
		{"outer cluster", n, "fontsize", "14"},
		{"diagram default", n, "fontname", "Arial"},
		{"root node default", root, "color", "black"},
		{"root node style default", root, "shape", "box"},
		{"cluster own", inner, "bgcolor", "grey"},
		{"cluster inherited", inner, "penwidth", "2"},
		{"outer own", outer, "bgcolor", "white"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.EffectiveAttrs(tt.elem)[tt.key]; got != tt.want {
				t.Errorf("EffectiveAttrs()[%q] = %q, want %q", tt.key, got, tt.want)
			}
		})
	}

	if _, ok := d.EffectiveAttrs(root)["fontsize"]; !ok {
		t.Error("root node should still receive the diagram fontsize default")
	}
}

func TestEffectiveAttrsLabelNotInherited(t *testing.T) {
	d := newTestDiagram(t)
	outer, _ := d.CreateCluster("Outer", Attrs{"label": "Outer Label", "bgcolor": "white"}, nil,
		WithNodeDefaults(Attrs{"label": "inherited", "color": "red"}))
	inner, _ := d.CreateCluster("Inner", nil, outer)
	n, _ := d.CreateNode("API", nil, inner)
	own, _ := d.CreateNode("Worker", Attrs{"label": "Worker Pool"}, inner)

	tests := []struct {
		name string
		elem Element
		key  string
		want string
		ok   bool
	}{
		{"node label", n, "label", "", false},
		{"node still inherits color", n, "color", "red", true},
		{"own node label", own, "label", "Worker Pool", true},
		{"cluster label", inner, "label", "", false},
		{"cluster still inherits bgcolor", inner, "bgcolor", "white", true},
		{"outer own label", outer, "label", "Outer Label", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.EffectiveAttrs(tt.elem)[tt.key]
			if ok != tt.ok || got != tt.want {
				t.Errorf("EffectiveAttrs()[%q] = %q (present %v), want %q (present %v)", tt.key, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEffectiveAttrsDoesNotMutate(t *testing.T) {
	d := newTestDiagram(t)
	c, _ := d.CreateCluster("c", nil, nil, WithNodeDefaults(Attrs{"color": "red"}))
	n, _ := d.CreateNode("n", nil, c)

	eff := d.EffectiveAttrs(n)
	eff["color"] = "green"

	if d.EffectiveAttrs(n)["color"] != "red" {
		t.Error("mutating the resolved map leaked into the model")
	}
	if _, ok := n.Attrs()["color"]; ok {
		t.Error("resolution must not copy inherited values into the node")
	}
}

func TestEffectiveEdgeAttrs(t *testing.T) {
	d := newTestDiagram(t)
	a, _ := d.CreateNode("a", nil, nil)
	b, _ := d.CreateNode("b", nil, nil)
	e, _ := d.Connect(a, b, Attrs{"penwidth": "3", "style": "dashed"})

	eff := d.EffectiveEdgeAttrs(e)
	if eff["penwidth"] != "3" || eff["style"] != "dashed" || eff["fontname"] != "Arial" {
		t.Errorf("EffectiveEdgeAttrs() = %v", eff)
	}
}

func TestStyleValidate(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		code  errors.Code
	}{
		{"default", DefaultStyle(), ""},
		{"bad direction", Style{Direction: "up"}, errors.ErrCodeInvalidInput},
		{"bad splines", DefaultStyle().With(KindGraph, Attrs{"splines": "wiggly"}), errors.ErrCodeInvalidAttribute},
		{"bad node key", DefaultStyle().With(KindNode, Attrs{"bgcolor": "red"}), errors.ErrCodeInvalidAttribute},
		{"bad role", DefaultStyle().WithRole("x", Attrs{"shape": "box"}), errors.ErrCodeInvalidAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.style.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}
