package dot_test

import (
	"fmt"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/render/dot"
)

func ExampleCompile() {
	d, _ := diagram.New("Queue", diagram.Style{Direction: diagram.LeftToRight})
	b := diagram.NewBuilder(d)
	api := b.Node("API", nil)
	worker := b.Node("Worker", nil)
	b.Edge(api, worker, diagram.Attrs{"label": "enqueue", "style": "dashed"})

	src, err := dot.Compile(d)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(string(src))
	// Output:
	// digraph "Queue" {
	//   graph [label="Queue", rankdir="LR"];
	//   n1 [label="API"];
	//   n2 [label="Worker"];
	//
	//   n1 -> n2 [label="enqueue", style="dashed"];
	// }
}
