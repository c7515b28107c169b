/*
Package result holds the outputs of the matching engine.

  - PathSystem: a rooted tree of shortest accepted paths. Each tree node is a
    (host node, automaton state) pair; leaves are the pairs reached in a final state.
  - Slice: the host nodes and edges lying on at least one accepted path.
  - Path: one concrete walk through the host graph, as extracted from a PathSystem.

Results are built by the engine, frozen with Finish and read-only afterwards.
They serialize to JSON for caching and transport.
*/
package result
