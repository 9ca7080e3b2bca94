// This file translates the decoded HCL blocks (from schema.go) into the
// format-agnostic model defined in the config package.

package hcl

import (
	"context"
	"encoding/json"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/simgraph/internal/config"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

func translateFile(ctx context.Context, path string, f *hclFile) (*config.Model, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	model := config.NewModel()

	for _, e := range f.Elements {
		diags = append(diags, rejectUnknown(e.Remain)...)
		el := &config.Element{Name: e.Name, Origin: originOf(path, e.Remain)}
		for _, a := range e.Attributes {
			typ, err := attributeType(ctx, a.Type)
			if err != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Invalid attribute type",
					Detail:   err.Error(),
					Subject:  a.Type.Range().Ptr(),
				})
				continue
			}
			el.Attributes = append(el.Attributes, &config.Attribute{Name: a.Name, Type: typ})
		}
		model.Elements = append(model.Elements, el)
	}

	for _, n := range f.Nodes {
		diags = append(diags, rejectUnknown(n.Remain)...)
		cfg, cfgDiags := nodeConfig(n.Config)
		diags = append(diags, cfgDiags...)
		model.Nodes = append(model.Nodes, &config.Node{
			ID:     n.ID,
			Kind:   n.Kind,
			Label:  n.Label,
			X:      n.X,
			Y:      n.Y,
			Config: cfg,
			Origin: originOf(path, n.Remain),
		})
	}

	for _, e := range f.Edges {
		diags = append(diags, rejectUnknown(e.Remain)...)
		model.Edges = append(model.Edges, &config.Edge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
			Origin:       originOf(path, e.Remain),
		})
	}

	return model, diags
}

// nodeConfig evaluates a node's config object and converts it to the JSON
// form node configurations are merged in.
func nodeConfig(expr hcl.Expression) (map[string]any, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if ty := val.Type(); !ty.IsObjectType() && !ty.IsMapType() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid node config",
			Detail:   "config must be an object, got " + ty.FriendlyName() + ".",
			Subject:  expr.Range().Ptr(),
		}}
	}

	raw, err := ctyjson.Marshal(val, val.Type())
	if err == nil {
		var out map[string]any
		if err = json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
	}
	return nil, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid node config",
		Detail:   err.Error(),
		Subject:  expr.Range().Ptr(),
	}}
}

// rejectUnknown reports arguments and blocks left over after decoding.
func rejectUnknown(body hcl.Body) hcl.Diagnostics {
	if body == nil {
		return nil
	}
	attrs, diags := body.JustAttributes()
	for name, attr := range attrs {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unsupported argument",
			Detail:   "An argument named \"" + name + "\" is not expected here.",
			Subject:  attr.NameRange.Ptr(),
		})
	}
	return diags
}

func originOf(path string, body hcl.Body) config.Origin {
	if body == nil {
		return config.Origin{File: path}
	}
	return config.Origin{File: path, Line: body.MissingItemRange().Start.Line}
}
