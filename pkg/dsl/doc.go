/*
Package dsl provides a Go DSL for programmatically constructing host graphs and
the automata that walk them.

It is an alternative to query documents when graphs are generated on the fly,
in unit tests, or when IDE autocompletion helps.

Example usage:

	b := dsl.New()
	b.Add("A").Type("city").Go("B", "road")
	b.Add("B").Type("town").Go("C", "road")
	b.Add("C").Type("town")
	g, err := b.Build()

	roads, err := dsl.Automaton("roads").
		State("start").Out("town", "road").
		State("town").Final().Out("town", "road").
		Build()

	// ... pass both to wayfinder.New(g) and Engine.BuildSlice
*/
package dsl
