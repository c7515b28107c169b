package domain

// ResultKind names the kinds of query results, used as cache namespaces and
// in metrics labels.
type ResultKind string

const (
	KindPathSystem ResultKind = "pathsystem"
	KindSlice      ResultKind = "slice"
	KindPath       ResultKind = "path"
)
