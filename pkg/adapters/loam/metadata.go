package loam

// NodeMetadata represents the front matter of a host node document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type NodeMetadata struct {
	ID         string         `json:"id" mapstructure:"id"`
	Type       string         `json:"type" mapstructure:"type"`
	Attributes map[string]any `json:"attributes" mapstructure:"attributes"`
	Edges      []EdgeMetadata `json:"edges" mapstructure:"edges"`

	// To is sugar for a single untyped outgoing edge.
	To string `json:"to" mapstructure:"to"`
}

// EdgeMetadata is an outgoing edge declared in a node document.
type EdgeMetadata struct {
	To         string         `json:"to" mapstructure:"to"`
	Type       string         `json:"type" mapstructure:"type"`
	Attributes map[string]any `json:"attributes" mapstructure:"attributes"`
}
