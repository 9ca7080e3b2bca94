// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/vk/simgraph/internal/node"
)

// idRegex is the allowed character set of a node id.
var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// New generates a fresh id for a node of the given kind.
func New(kind node.Kind) string {
	return node.IDPrefix(kind) + "-" + uuid.NewString()
}

// Parse checks rawID and splits it into prefix and suffix.
func Parse(rawID string) (*Address, error) {
	if rawID == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}
	if !idRegex.MatchString(rawID) {
		return nil, fmt.Errorf("invalid identifier %q: only letters, digits and _ . : - are allowed", rawID)
	}
	if rawID == "-" || rawID == "." || rawID == ".." {
		return nil, fmt.Errorf("invalid identifier %q", rawID)
	}

	prefix, suffix, found := strings.Cut(rawID, "-")
	if !found || prefix == "" || suffix == "" {
		return &Address{Suffix: rawID}, nil
	}
	return &Address{Prefix: prefix, Suffix: suffix}, nil
}

// String serializes the Address back into its id.
func (a *Address) String() string {
	if a == nil {
		return ""
	}
	if a.Prefix == "" {
		return a.Suffix
	}
	return a.Prefix + "-" + a.Suffix
}

// IsUUID reports whether the suffix is a generated UUID.
func (a *Address) IsUUID() bool {
	if a == nil {
		return false
	}
	_, err := uuid.Parse(a.Suffix)
	return err == nil
}

// EdgeID builds the id of the edge source -> target. Handles may be empty.
func EdgeID(source, sourceHandle, target, targetHandle string) string {
	return EdgePrefix + source + sourceHandle + "-" + target + targetHandle
}
