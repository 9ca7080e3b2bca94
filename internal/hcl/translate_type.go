// This file parses element attribute type expressions. A type is either an
// HCL type keyword (`string`, `number`, `bool`) or a quoted name the element
// registry resolves (`"numeric"`, `"categorico"`).

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/element"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// keywordTypes maps the primitive type keywords to the attribute type whose
// values they hold.
var keywordTypes = map[string]cty.Type{
	"string": cty.String,
	"number": cty.Number,
	"bool":   cty.Bool,
}

// attributeType converts an HCL type expression into an attribute type
// name.
func attributeType(ctx context.Context, expr hcl.Expression) (string, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return "", fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing attribute type as a keyword.", "keyword", rootName)
		if ty, ok := keywordTypes[rootName]; ok {
			return string(fromCtyType(ty)), nil
		}
		// Bare registry names such as `numeric` are accepted as well.
		if _, err := element.ParseAttributeType(rootName); err != nil {
			return "", fmt.Errorf("unknown attribute type %q", rootName)
		}
		return rootName, nil

	default:
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return "", diags
		}
		val, err := convert.Convert(val, cty.String)
		if err != nil || val.IsNull() {
			return "", fmt.Errorf("attribute type must be a type keyword or a string")
		}
		return val.AsString(), nil
	}
}

func fromCtyType(ty cty.Type) element.AttributeType {
	for _, t := range []element.AttributeType{element.Numeric, element.Boolean} {
		if t.CtyType().Equals(ty) {
			return t
		}
	}
	return element.Categorical
}
