// Package element holds the element schemas of a model: the named entity
// types (customers, parts, vehicles) that flow through the graph, together
// with their typed attributes.
package element

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyName          = errors.New("element name is required")
	ErrEmptyAttribute     = errors.New("every attribute must have a name")
	ErrDuplicateAttribute = errors.New("attribute names must be unique")
	ErrDuplicateElement   = errors.New("an element with this name already exists")
	ErrUnknownType        = errors.New("unknown attribute type")
	ErrNotFound           = errors.New("element not found")
)

// AttributeType is the value domain of an attribute.
type AttributeType string

const (
	Categorical AttributeType = "categorical"
	Numeric     AttributeType = "numeric"
	Boolean     AttributeType = "boolean"
)

var typeAliases = map[string]AttributeType{
	"categorical": Categorical,
	"categorico":  Categorical,
	"categórico":  Categorical,
	"numeric":     Numeric,
	"numerico":    Numeric,
	"numérico":    Numeric,
	"boolean":     Boolean,
	"booleano":    Boolean,
}

// ParseAttributeType accepts the canonical names and their Spanish
// spellings.
func ParseAttributeType(raw string) (AttributeType, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
}

// UnmarshalJSON implements json.Unmarshaler, normalising aliases.
func (t *AttributeType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseAttributeType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *AttributeType) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseAttributeType(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// CtyType maps an attribute type to the cty type its values decode to.
func (t AttributeType) CtyType() cty.Type {
	switch t {
	case Categorical:
		return cty.String
	case Numeric:
		return cty.Number
	case Boolean:
		return cty.Bool
	default:
		return cty.DynamicPseudoType
	}
}

// Attribute is one typed field of an element.
type Attribute struct {
	Name string        `json:"name" yaml:"name"`
	Type AttributeType `json:"type" yaml:"type"`
}

// Schema describes one element type.
type Schema struct {
	ID         string      `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Attributes []Attribute `json:"attributes" yaml:"attributes"`
}

// Attribute looks up an attribute by name, case-insensitively.
func (s Schema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// clone returns a copy that shares no slices with s.
func (s Schema) clone() Schema {
	s.Attributes = append([]Attribute(nil), s.Attributes...)
	if s.Attributes == nil {
		s.Attributes = []Attribute{}
	}
	return s
}

var whitespace = regexp.MustCompile(`\s+`)

// DeriveID turns an element name into its identifier: lower case, with
// each run of whitespace replaced by an underscore.
func DeriveID(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(name), "_")
}

// Normalize trims the element and attribute names.
func Normalize(s Schema) Schema {
	s = s.clone()
	s.Name = strings.TrimSpace(s.Name)
	for i := range s.Attributes {
		s.Attributes[i].Name = strings.TrimSpace(s.Attributes[i].Name)
	}
	return s
}

// Check validates a candidate schema against the schemas already known.
// Schemas whose ID equals candidate.ID are ignored so an element can be
// re-checked while it is being edited.
func Check(candidate Schema, existing []Schema) error {
	name := strings.TrimSpace(candidate.Name)
	if name == "" {
		return ErrEmptyName
	}

	seen := make(map[string]struct{}, len(candidate.Attributes))
	for _, a := range candidate.Attributes {
		attr := strings.TrimSpace(a.Name)
		if attr == "" {
			return ErrEmptyAttribute
		}
		key := strings.ToLower(attr)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateAttribute, attr)
		}
		seen[key] = struct{}{}
		if _, err := ParseAttributeType(string(a.Type)); err != nil {
			return fmt.Errorf("attribute %q: %w", attr, err)
		}
	}

	for _, other := range existing {
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(other.Name), name) {
			return fmt.Errorf("%w: %q", ErrDuplicateElement, name)
		}
	}
	return nil
}
