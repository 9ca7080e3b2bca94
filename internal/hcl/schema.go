package hcl

import "github.com/hashicorp/hcl/v2"

// hclFile represents the top-level structure of a model file for decoding.
type hclFile struct {
	Elements []*hclElement `hcl:"element,block"`
	Nodes    []*hclNode    `hcl:"node,block"`
	Edges    []*hclEdge    `hcl:"edge,block"`
}

type hclElement struct {
	Name       string          `hcl:"name,label"`
	Attributes []*hclAttribute `hcl:"attribute,block"`
	Remain     hcl.Body        `hcl:",remain"`
}

type hclAttribute struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

type hclNode struct {
	Kind   string         `hcl:"kind,label"`
	ID     string         `hcl:"id,label"`
	Label  string         `hcl:"label,optional"`
	X      float64        `hcl:"x,optional"`
	Y      float64        `hcl:"y,optional"`
	Config hcl.Expression `hcl:"config,optional"`
	Remain hcl.Body       `hcl:",remain"`
}

type hclEdge struct {
	Source       string   `hcl:"source,label"`
	Target       string   `hcl:"target,label"`
	ID           string   `hcl:"id,optional"`
	SourceHandle string   `hcl:"source_handle,optional"`
	TargetHandle string   `hcl:"target_handle,optional"`
	Remain       hcl.Body `hcl:",remain"`
}
