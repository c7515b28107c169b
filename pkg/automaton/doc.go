/*
Package automaton defines the finite automata that the matching engine drives
over a host graph.

An Automaton is a set of numbered States; each State carries an ordered list of
outgoing Transitions. A Transition is either consuming (KindEdge: it traverses
one incidence and advances the path) or structural (KindStructural: it stays on
the current node, e.g. a node type filter). Whether a move is admitted is
decided by an Acceptor, a capability evaluated by the host.

Automata are normally produced by a compiler outside this module; Spec offers a
small declarative form used by the query documents and the CLI.
*/
package automaton
