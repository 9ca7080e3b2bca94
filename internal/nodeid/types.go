// internal/nodeid/types.go
package nodeid

// Address is the structured form of a node id.
type Address struct {
	// Prefix is the part before the first '-'. Empty when the id has none.
	Prefix string
	// Suffix is everything after the first '-', or the whole id when there
	// is no prefix.
	Suffix string
}

// EdgePrefix starts every generated edge id.
const EdgePrefix = "reactflow__edge-"
