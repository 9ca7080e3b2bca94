package node

import (
	"fmt"

	"github.com/vk/simgraph/internal/distribution"
	"github.com/vk/simgraph/internal/validation"
)

// Config is the kind-tagged configuration of a node. The set of
// implementations is closed; switch on the concrete type to handle each
// kind.
type Config interface {
	Kind() Kind
	// ElementTypeID is the element schema the node handles, or "" when none
	// is selected.
	ElementTypeID() string
	// Validate checks field constraints that do not depend on the element
	// registry.
	Validate() error
	isConfig()
}

// QueueStrategy is the queueing discipline of a queue.
type QueueStrategy string

const (
	FIFO     QueueStrategy = "FIFO"
	LIFO     QueueStrategy = "LIFO"
	Random   QueueStrategy = "RANDOM"
	Priority QueueStrategy = "PRIORITY"
)

// SortOrder orders a priority attribute.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SelectorStrategy decides which input a selector serves next.
type SelectorStrategy string

const (
	InputPriority SelectorStrategy = "INPUT_PRIORITY"
	// Order serves inputs round-robin.
	Order SelectorStrategy = "ORDER"
)

// TransportMode distinguishes conveyor-like from vehicle-like transport.
type TransportMode string

const (
	Continuous TransportMode = "CONTINUOUS"
	Mobile     TransportMode = "MOBILE"
)

type GeneratorConfig struct {
	Name          string                    `json:"name"`
	ElementType   string                    `json:"elementTypeId,omitempty"`
	Generation    distribution.Descriptor   `json:"generation" validate:"-"`
	ServiceTime   *distribution.Descriptor  `json:"serviceTime,omitempty" validate:"-"`
	Limit         *int                      `json:"limit,omitempty" validate:"omitempty,gt=0"`
	OnDemand      bool                      `json:"onDemand"`
	DelayOnDemand *float64                  `json:"delayOnDemand,omitempty" validate:"omitempty,finite,gte=0"`
	// AttributesProbabilities maps attribute name -> value -> probability.
	AttributesProbabilities map[string]map[string]float64 `json:"attributesProbabilities" validate:"dive,dive,finite,gte=0,lte=1"`
}

type PriorityAttribute struct {
	Attribute string    `json:"attribute" validate:"required"`
	Order     SortOrder `json:"order" validate:"oneof=asc desc"`
}

type QueueConfig struct {
	Name               string              `json:"name"`
	ElementType        string              `json:"elementTypeId,omitempty"`
	Strategy           QueueStrategy       `json:"strategy" validate:"oneof=FIFO LIFO RANDOM PRIORITY"`
	PriorityAttributes []PriorityAttribute `json:"priorityAttributes" validate:"dive"`
	// Capacity is nil for an unbounded queue.
	Capacity *int `json:"capacity,omitempty" validate:"omitempty,gt=0"`
}

type SelectorConfig struct {
	Name           string           `json:"name"`
	ElementType    string           `json:"elementTypeId,omitempty"`
	Strategy       SelectorStrategy `json:"strategy" validate:"oneof=INPUT_PRIORITY ORDER"`
	PriorityInputs []string         `json:"priorityInputs"`
}

type TransporterConfig struct {
	Name        string                  `json:"name"`
	ElementType string                  `json:"elementTypeId,omitempty"`
	Mode        TransportMode           `json:"mode" validate:"oneof=CONTINUOUS MOBILE"`
	TravelTime  distribution.Descriptor `json:"travelTime" validate:"-"`
	// MinInterval applies in CONTINUOUS mode.
	MinInterval float64 `json:"minInterval" validate:"finite,gte=0"`
	// Capacity and MaxWait apply in MOBILE mode.
	Capacity int     `json:"capacity" validate:"gt=0"`
	MaxWait  float64 `json:"maxWait" validate:"finite,gte=0"`
}

// TransformerConfig consumes sets of elements and emits new ones. It never
// carries an element type of its own.
type TransformerConfig struct {
	Name string `json:"name"`
	// InputRequirements maps element type id -> units consumed per cycle.
	InputRequirements map[string]int `json:"inputRequirements" validate:"dive,gt=0"`
	// OutputMapping maps produced element type id -> source element type id.
	OutputMapping    map[string]string       `json:"outputMapping"`
	TransformTime    distribution.Descriptor `json:"transformTime" validate:"-"`
	AttributeChanges map[string]any          `json:"attributeChanges"`
}

type OutputConfig struct {
	Name        string `json:"name"`
	ElementType string `json:"elementTypeId,omitempty"`
}

func (GeneratorConfig) Kind() Kind   { return Generator }
func (QueueConfig) Kind() Kind       { return Queue }
func (SelectorConfig) Kind() Kind    { return Selector }
func (TransporterConfig) Kind() Kind { return Transporter }
func (TransformerConfig) Kind() Kind { return Transformer }
func (OutputConfig) Kind() Kind      { return Output }

func (c GeneratorConfig) ElementTypeID() string   { return c.ElementType }
func (c QueueConfig) ElementTypeID() string       { return c.ElementType }
func (c SelectorConfig) ElementTypeID() string    { return c.ElementType }
func (c TransporterConfig) ElementTypeID() string { return c.ElementType }
func (TransformerConfig) ElementTypeID() string   { return "" }
func (c OutputConfig) ElementTypeID() string      { return c.ElementType }

func (GeneratorConfig) isConfig()   {}
func (QueueConfig) isConfig()       {}
func (SelectorConfig) isConfig()    {}
func (TransporterConfig) isConfig() {}
func (TransformerConfig) isConfig() {}
func (OutputConfig) isConfig()      {}

func (c GeneratorConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	if err := validateDistribution("generation", c.Generation); err != nil {
		return err
	}
	if c.ServiceTime != nil {
		return validateDistribution("serviceTime", *c.ServiceTime)
	}
	return nil
}

func (c QueueConfig) Validate() error { return validation.Struct(c) }

func (c SelectorConfig) Validate() error { return validation.Struct(c) }

func (c TransporterConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validateDistribution("travelTime", c.TravelTime)
}

func (c TransformerConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validateDistribution("transformTime", c.TransformTime)
}

func (c OutputConfig) Validate() error { return validation.Struct(c) }

func validateDistribution(field string, d distribution.Descriptor) error {
	if err := distribution.Validate(d); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}
