package node

import "fmt"

// Visual holds the palette defaults of a kind.
type Visual struct {
	Label string
	Color string
}

// DefaultVisual returns the label and color a new node of kind is drawn
// with.
func DefaultVisual(kind Kind) Visual {
	switch kind {
	case Generator:
		return Visual{Label: "Generator", Color: "#4b5563"}
	case Queue:
		return Visual{Label: "Queue", Color: "#059669"}
	case Selector:
		return Visual{Label: "Selector", Color: "#dc2626"}
	case Transporter:
		return Visual{Label: "Transporter", Color: "#f57c00"}
	case Transformer:
		return Visual{Label: "Transformer", Color: "#8e44ad"}
	case Output:
		return Visual{Label: "Output", Color: "#64748b"}
	default:
		panic(fmt.Sprintf("node: unhandled kind %q", kind))
	}
}

// IDPrefix is the prefix of generated node ids. Queues use "node" for
// compatibility with projects saved by earlier editor versions.
func IDPrefix(kind Kind) string {
	if kind == Queue {
		return "node"
	}
	return string(kind)
}
