package config

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// LoadOverridesFile reads a YAML document shaped like the configuration tree and
// flattens it into Options.Overrides keys:
//
//	gemini:
//	  temperature: 0.5
//
// becomes {"gemini.temperature": "0.5"}. Unknown keys are rejected later by Load.
func LoadOverridesFile(filesystem afero.Fs, path string) (map[string]string, error) {
	data, err := afero.ReadFile(filesystem, path)
	if err != nil {
		return nil, &LoadError{File: path, Err: fmt.Errorf("read file: %w", err)}
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{File: path, Err: fmt.Errorf("parse YAML: %w", err)}
	}

	out := make(map[string]string)
	flatten("", doc, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]any:
			flatten(key, x, out)
		case nil:
		default:
			out[key] = fmt.Sprint(x)
		}
	}
}

// MergeOverrides returns base with every entry of top applied over it. Keys are
// rekeyed to dotted field keys; a map naming one setting twice is rejected.
func MergeOverrides(base, top map[string]string) (map[string]string, error) {
	canonicalBase, baseErr := canonicalOverrides(base)
	canonicalTop, topErr := canonicalOverrides(top)
	if err := multierr.Append(baseErr, topErr); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(canonicalBase)+len(canonicalTop))
	for k, v := range canonicalBase {
		out[k] = v
	}
	for k, v := range canonicalTop {
		out[k] = v
	}
	return out, nil
}
