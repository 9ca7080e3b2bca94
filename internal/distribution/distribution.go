package distribution

import (
	"fmt"
	"strings"
)

// Kind is the wire tag of a distribution family.
type Kind string

const (
	KindFixed       Kind = "fijo"
	KindUniform     Kind = "uniforme"
	KindExponential Kind = "exponencial"
	KindNormal      Kind = "normal"
)

// kindAliases maps accepted input spellings to their canonical tag.
var kindAliases = map[string]Kind{
	"fijo":        KindFixed,
	"fixed":       KindFixed,
	"uniforme":    KindUniform,
	"uniform":     KindUniform,
	"exponencial": KindExponential,
	"exponential": KindExponential,
	"normal":      KindNormal,
}

// ParseKind resolves a wire tag or its English name to a Kind.
func ParseKind(raw string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown distribution kind %q", raw)
}

// Distribution is a closed sum type over the supported families.
type Distribution interface {
	Kind() Kind
	isDistribution()
}

// Fixed always yields Value.
type Fixed struct {
	Value float64 `json:"value" validate:"finite"`
}

// Uniform yields values in [Min, Max).
type Uniform struct {
	Min float64 `json:"min" validate:"finite,ltefield=Max"`
	Max float64 `json:"max" validate:"finite"`
}

// Exponential has rate Lambda, mean 1/Lambda.
type Exponential struct {
	Lambda float64 `json:"lambda" validate:"finite,gt=0"`
}

// Normal has mean Mu and standard deviation Sigma.
type Normal struct {
	Mu    float64 `json:"mu" validate:"finite"`
	Sigma float64 `json:"sigma" validate:"finite,gte=0"`
}

func (Fixed) Kind() Kind       { return KindFixed }
func (Uniform) Kind() Kind     { return KindUniform }
func (Exponential) Kind() Kind { return KindExponential }
func (Normal) Kind() Kind      { return KindNormal }

func (Fixed) isDistribution()       {}
func (Uniform) isDistribution()     {}
func (Exponential) isDistribution() {}
func (Normal) isDistribution()      {}

// Default is the descriptor new nodes start with: fixed 1.
func Default() Descriptor {
	return Descriptor{Distribution: Fixed{Value: 1}}
}

// String renders a descriptor compactly, e.g. "uniforme(2, 4)".
func String(d Distribution) string {
	switch v := unwrap(d).(type) {
	case nil:
		return "<none>"
	case Fixed:
		return fmt.Sprintf("%s(%g)", v.Kind(), v.Value)
	case Uniform:
		return fmt.Sprintf("%s(%g, %g)", v.Kind(), v.Min, v.Max)
	case Exponential:
		return fmt.Sprintf("%s(%g)", v.Kind(), v.Lambda)
	case Normal:
		return fmt.Sprintf("%s(%g, %g)", v.Kind(), v.Mu, v.Sigma)
	default:
		panic(fmt.Sprintf("distribution: unhandled type %T", v))
	}
}

// unwrap strips Descriptor wrappers (including pointers to them) so callers
// can switch on the concrete family.
func unwrap(d Distribution) Distribution {
	for {
		switch v := d.(type) {
		case Descriptor:
			d = v.Distribution
		case *Descriptor:
			if v == nil {
				return nil
			}
			d = v.Distribution
		default:
			return d
		}
	}
}
