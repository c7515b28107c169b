package domain

// Direction tells on which end of an edge an incidence sits.
type Direction int

const (
	// Out: the node owning the incidence is the edge's alpha.
	Out Direction = iota
	// In: the node owning the incidence is the edge's omega.
	In
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// Incidence is one end of an edge as seen from a node.
// A self loop produces two incidences on the same node, one Out and one In.
type Incidence struct {
	Edge      EdgeID    `json:"edge"`
	Direction Direction `json:"direction"`
	// That is the node at the other end of the edge.
	That NodeID `json:"that"`
}
