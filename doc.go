/*
Package wayfinder evaluates regular path expressions over a property graph.

A path expression is compiled into a finite automaton whose alphabet is the
graph's incidences: each step either crosses an edge (in a given direction,
restricted by predicates) or stays on the node while checking it. Running the
automaton over the graph from one or more start nodes yields one of three
results:

  - A path system: the tree of shortest accepted paths to every node reached
    in a final state.
  - A slice: every node and edge that lies on at least one accepted path.
  - A path: the shortest accepted path to one target node.

# Usage

Build an Engine over a host graph, register automata, and query it.

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/wayfinder"
		"github.com/aretw0/wayfinder/pkg/domain"
	)

	func main() {
		// Read the host graph from a directory of node documents (Loam).
		eng, err := wayfinder.Open(context.Background(), "./my-graph",
			wayfinder.WithAutomata(automata),
		)
		if err != nil {
			log.Fatal(err)
		}

		ans, err := eng.Execute(context.Background(), domain.Query{
			Automaton: "roads",
			Roots:     []string{"lisbon"},
			Target:    "porto",
		})
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(ans.Path)
	}

Automata come from query documents (see pkg/adapters/file), from the fluent
builder in pkg/dsl, or are assembled directly with pkg/automaton.

Predicates receive the caller's evaluation environment unchanged. A predicate
may abort a build by returning an error; returning domain.ErrInterrupted or a
context error marks the abort as cooperative. Cancelling the context has the
same effect.

Results can be cached in a ports.ResultStore (in memory or Redis) and their
computation serialized across replicas with a ports.DistributedLocker.
*/
package wayfinder
