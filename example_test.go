package wayfinder_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/dsl"
)

// ExampleNew demonstrates how to use the Engine with a graph built in Go.
// This is useful for testing, embedded scenarios, or when you don't want to rely on the file system.
func ExampleNew() {
	// 1. Define the host graph: a one-way ring A -> B -> C -> D -> A.
	b := dsl.New()
	b.Add("A").Type("stop").Go("B", "next")
	b.Add("B").Type("stop").Go("C", "next")
	b.Add("C").Type("stop").Go("D", "next")
	b.Add("D").Type("stop").Go("A", "next")
	g, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Define the automaton: one or more forward edges.
	forward, err := dsl.Automaton("forward+").
		State("start").Out("moved").
		State("moved").Final().Out("moved").
		Build()
	if err != nil {
		log.Fatal(err)
	}

	engine, err := wayfinder.New(g)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Ask for the shortest accepted path from A to C.
	ctx := context.Background()
	ids, err := engine.Resolve("A", "C")
	if err != nil {
		log.Fatal(err)
	}
	path, err := engine.ExtractPath(ctx, forward, ids[:1], ids[1], nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(path)

	// 4. Every node and edge on some accepted path.
	slice, err := engine.BuildSlice(ctx, forward, ids[:1], nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(slice.NodeCount(), slice.EdgeCount())

	// Output:
	// v0 -e0-> v1 -e1-> v2
	// 4 4
}
