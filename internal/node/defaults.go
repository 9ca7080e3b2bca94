package node

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"strings"

	"github.com/vk/simgraph/internal/distribution"
)

// Defaults returns the configuration a new node of the given kind starts
// with.
func Defaults(kind Kind) Config {
	switch kind {
	case Generator:
		return GeneratorConfig{
			Name:                    "Generator",
			Generation:              distribution.Default(),
			AttributesProbabilities: map[string]map[string]float64{},
		}
	case Queue:
		return QueueConfig{
			Name:               "Queue",
			Strategy:           FIFO,
			PriorityAttributes: []PriorityAttribute{},
		}
	case Selector:
		return SelectorConfig{
			Name:           "Selector",
			Strategy:       InputPriority,
			PriorityInputs: []string{},
		}
	case Transporter:
		return TransporterConfig{
			Name:        "Transporter",
			Mode:        Continuous,
			TravelTime:  distribution.Default(),
			MinInterval: 0,
			Capacity:    1,
			MaxWait:     0,
		}
	case Transformer:
		return TransformerConfig{
			Name:              "Transformer",
			InputRequirements: map[string]int{},
			OutputMapping:     map[string]string{},
			TransformTime:     distribution.Default(),
			AttributeChanges:  map[string]any{},
		}
	case Output:
		return OutputConfig{Name: "Output"}
	default:
		panic(fmt.Sprintf("node: unhandled kind %q", kind))
	}
}

// creatorAliases maps the keys node creators send to config keys, per kind.
var creatorAliases = map[Kind]map[string]string{
	Generator: {
		"elementType":    "elementTypeId",
		"intervalParams": "generation",
		"attributes":     "attributesProbabilities",
	},
	Output: {
		"elementType": "elementTypeId",
	},
}

// Build returns the defaults for kind with overrides merged on top. Creator
// aliases are accepted; when both spellings are present the config key wins.
func Build(kind Kind, overrides map[string]any) (Config, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	return Apply(Defaults(kind), resolveAliases(kind, overrides))
}

func resolveAliases(kind Kind, overrides map[string]any) map[string]any {
	aliases := creatorAliases[kind]
	if len(aliases) == 0 || len(overrides) == 0 {
		return overrides
	}
	out := make(map[string]any, len(overrides))
	for k, v := range overrides {
		if _, isAlias := aliases[k]; !isAlias {
			out[k] = v
		}
	}
	for alias, key := range aliases {
		v, ok := overrides[alias]
		if !ok {
			continue
		}
		if _, set := out[key]; !set {
			out[key] = v
		}
	}
	return out
}

// Apply shallow-merges partial into cfg's JSON form: every key in partial
// replaces the corresponding top-level field. Unknown keys are ignored. The
// merged result is decoded and validated; on error cfg is left as it was and
// the error is returned.
func Apply(cfg Config, partial map[string]any) (Config, error) {
	base, err := toMap(cfg)
	if err != nil {
		return nil, err
	}
	for k, v := range partial {
		if d, ok := v.(distribution.Distribution); ok {
			v = distribution.Of(d)
		}
		base[k] = v
	}
	if cfg.Kind() == Queue {
		normalizeCapacity(base)
	}

	data, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encoding %s config: %w", cfg.Kind(), err)
	}
	merged, err := DecodeConfig(cfg.Kind(), data)
	if err != nil {
		return nil, err
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", cfg.Kind(), err)
	}
	return merged, nil
}

// DecodeConfig decodes the JSON form of a config of the given kind. Missing
// collections decode as empty ones.
func DecodeConfig(kind Kind, data []byte) (Config, error) {
	var (
		cfg Config
		err error
	)
	switch kind {
	case Generator:
		var c GeneratorConfig
		err = json.Unmarshal(data, &c)
		if c.AttributesProbabilities == nil {
			c.AttributesProbabilities = map[string]map[string]float64{}
		}
		cfg = c
	case Queue:
		var c QueueConfig
		err = json.Unmarshal(data, &c)
		if c.PriorityAttributes == nil {
			c.PriorityAttributes = []PriorityAttribute{}
		}
		cfg = c
	case Selector:
		var c SelectorConfig
		err = json.Unmarshal(data, &c)
		if c.PriorityInputs == nil {
			c.PriorityInputs = []string{}
		}
		cfg = c
	case Transporter:
		var c TransporterConfig
		err = json.Unmarshal(data, &c)
		cfg = c
	case Transformer:
		var c TransformerConfig
		err = json.Unmarshal(data, &c)
		if c.InputRequirements == nil {
			c.InputRequirements = map[string]int{}
		}
		if c.OutputMapping == nil {
			c.OutputMapping = map[string]string{}
		}
		if c.AttributeChanges == nil {
			c.AttributeChanges = map[string]any{}
		}
		cfg = c
	case Output:
		var c OutputConfig
		err = json.Unmarshal(data, &c)
		cfg = c
	default:
		panic(fmt.Sprintf("node: unhandled kind %q", kind))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", kind, err)
	}
	return cfg, nil
}

// CloneConfig deep-copies the collections of cfg.
func CloneConfig(cfg Config) Config {
	switch c := cfg.(type) {
	case GeneratorConfig:
		c.AttributesProbabilities = cloneNested(c.AttributesProbabilities)
		if c.Limit != nil {
			v := *c.Limit
			c.Limit = &v
		}
		if c.DelayOnDemand != nil {
			v := *c.DelayOnDemand
			c.DelayOnDemand = &v
		}
		if c.ServiceTime != nil {
			v := *c.ServiceTime
			c.ServiceTime = &v
		}
		return c
	case QueueConfig:
		c.PriorityAttributes = append([]PriorityAttribute{}, c.PriorityAttributes...)
		if c.Capacity != nil {
			v := *c.Capacity
			c.Capacity = &v
		}
		return c
	case SelectorConfig:
		c.PriorityInputs = append([]string{}, c.PriorityInputs...)
		return c
	case TransporterConfig:
		return c
	case TransformerConfig:
		c.InputRequirements = cloneMap(c.InputRequirements)
		c.OutputMapping = cloneMap(c.OutputMapping)
		c.AttributeChanges = cloneMap(c.AttributeChanges)
		return c
	case OutputConfig:
		return c
	default:
		panic(fmt.Sprintf("node: unhandled config type %T", cfg))
	}
}

func toMap(cfg Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding %s config: %w", cfg.Kind(), err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %s config: %w", cfg.Kind(), err)
	}
	return out, nil
}

// normalizeCapacity maps every spelling of an unbounded capacity to an
// absent key.
func normalizeCapacity(m map[string]any) {
	v, ok := m["capacity"]
	if !ok {
		return
	}
	switch c := v.(type) {
	case nil:
		delete(m, "capacity")
	case string:
		switch strings.ToLower(strings.TrimSpace(c)) {
		case "unbounded", "infinity", "inf", "":
			delete(m, "capacity")
		}
	case float64:
		if math.IsInf(c, 0) || math.IsNaN(c) {
			delete(m, "capacity")
		}
	case float32:
		if math.IsInf(float64(c), 0) || math.IsNaN(float64(c)) {
			delete(m, "capacity")
		}
	case *int:
		if c == nil {
			delete(m, "capacity")
		}
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return maps.Clone(m)
}

func cloneNested(m map[string]map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(m))
	for k, inner := range m {
		out[k] = cloneMap(inner)
	}
	return out
}
