package distribution

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Descriptor carries a Distribution through JSON using the
// {"kind": ..., "params": {...}} envelope. The zero Descriptor holds no
// distribution and encodes as null.
type Descriptor struct {
	Distribution
}

// Of wraps d in a Descriptor.
func Of(d Distribution) Descriptor {
	return Descriptor{Distribution: unwrap(d)}
}

// Kind returns the wrapped family, or "" when empty.
func (d Descriptor) Kind() Kind {
	if d.Distribution == nil {
		return ""
	}
	return d.Distribution.Kind()
}

// IsZero reports whether no distribution is set.
func (d Descriptor) IsZero() bool {
	return unwrap(d) == nil
}

type envelope struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

// MarshalJSON implements json.Marshaler.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	inner := unwrap(d)
	if inner == nil {
		return []byte("null"), nil
	}
	params, err := json.Marshal(inner)
	if err != nil {
		return nil, fmt.Errorf("encoding %s params: %w", inner.Kind(), err)
	}
	return json.Marshal(envelope{Kind: string(inner.Kind()), Params: params})
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Distribution = nil
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding distribution: %w", err)
	}
	if env.Kind == "" {
		return errors.New("decoding distribution: missing kind")
	}
	kind, err := ParseKind(env.Kind)
	if err != nil {
		return fmt.Errorf("decoding distribution: %w", err)
	}
	if len(env.Params) == 0 || bytes.Equal(env.Params, []byte("null")) {
		return fmt.Errorf("decoding distribution: %s requires params", kind)
	}

	decoded, err := decodeParams(kind, env.Params)
	if err != nil {
		return fmt.Errorf("decoding %s params: %w", kind, err)
	}
	d.Distribution = decoded
	return nil
}

func decodeParams(kind Kind, raw json.RawMessage) (Distribution, error) {
	switch kind {
	case KindFixed:
		var v Fixed
		err := json.Unmarshal(raw, &v)
		return v, err
	case KindUniform:
		var v Uniform
		err := json.Unmarshal(raw, &v)
		return v, err
	case KindExponential:
		var v Exponential
		err := json.Unmarshal(raw, &v)
		return v, err
	case KindNormal:
		var v Normal
		err := json.Unmarshal(raw, &v)
		return v, err
	default:
		panic(fmt.Sprintf("distribution: unhandled kind %q", kind))
	}
}

// Parse decodes a descriptor from its JSON wire form.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, err
	}
	if d.IsZero() {
		return Descriptor{}, errors.New("decoding distribution: empty descriptor")
	}
	return d, nil
}
