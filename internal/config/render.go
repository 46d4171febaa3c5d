package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Redacted returns the configuration as a nested map keyed like the YAML overrides
// file. Secrets appear as [REDACTED] when set and nil when absent; durations are
// rendered as strings.
func (c *Config) Redacted() map[string]any {
	root := make(map[string]any)
	v := reflect.ValueOf(c).Elem()

	for _, f := range fields() {
		node := root
		parts := strings.Split(f.key, ".")
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = renderValue(v.FieldByIndex(f.index).Interface())
	}
	return root
}

// WriteYAML writes the redacted configuration as YAML.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Redacted()); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}

func renderValue(v any) any {
	switch x := v.(type) {
	case Secret:
		if !x.IsSet() {
			return nil
		}
		return x.String()
	case time.Duration:
		return x.String()
	case Environment:
		return string(x)
	case EarlyStoppingMethod:
		return string(x)
	case LogLevel:
		return string(x)
	}
	return v
}
