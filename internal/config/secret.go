package config

import (
	"encoding/json"

	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

// Secret holds a credential. The empty value means the secret is absent, which is a
// valid state. Every rendering of a Secret is redacted; only Reveal returns the value.
type Secret string

// IsSet reports whether the secret has a value.
func (s Secret) IsSet() bool {
	return s != ""
}

// Reveal returns the raw value.
func (s Secret) Reveal() string {
	return string(s)
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	if !s.IsSet() {
		return ""
	}
	return redacted
}

// GoString keeps %#v from leaking the value.
func (s Secret) GoString() string {
	return s.String()
}

// MarshalJSON renders the secret as null when absent and redacted otherwise.
func (s Secret) MarshalJSON() ([]byte, error) {
	if !s.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(redacted)
}

// MarshalYAML implements yaml.Marshaler.
func (s Secret) MarshalYAML() (any, error) {
	if !s.IsSet() {
		return nil, nil
	}
	return redacted, nil
}

// MarshalLogObject lets a Secret be passed to zap.Object without exposing it.
func (s Secret) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("set", s.IsSet())
	return nil
}
