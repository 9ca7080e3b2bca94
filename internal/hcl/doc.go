// Package hcl provides the HCL implementation of config.Loader. It parses
// model files, decodes their blocks and translates them into the
// format-agnostic config.Model.
//
// A model file is made of three block types:
//
//	element "Usuarios" {
//	  attribute "edad" { type = number }
//	  attribute "vip"  { type = "booleano" }
//	}
//
//	node "queue" "q1" {
//	  label  = "Caja"
//	  x      = 120
//	  y      = 40
//	  config = {
//	    elementTypeId = "usuarios"
//	    strategy      = "PRIORITY"
//	    capacity      = 10
//	  }
//	}
//
//	edge "g1" "q1" {
//	  source_handle = "out"
//	  target_handle = "in"
//	}
//
// Attribute types may be written as the type keywords string, number and
// bool, or as any name the element registry accepts. Node configs are
// plain HCL objects converted to JSON-compatible values.
package hcl
