package config

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func TestModelParameters(t *testing.T) {
	opts := testOptions(t)
	opts.Environ = environ("GOOGLE_API_KEY=g-key")
	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	t.Run("gemini key set", func(t *testing.T) {
		params, err := cfg.ModelParameters("gemini")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"api_key", "max_output_tokens", "max_retries", "model", "request_timeout", "temperature"}
		if got := sortedParamKeys(params); !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected keys %v", got)
		}
		if params["model"] != "gemini-2.5-flash" || params["max_output_tokens"] != 8192 {
			t.Fatalf("unexpected values %v", params)
		}
		key, ok := params["api_key"].(Secret)
		if !ok || key.Reveal() != "g-key" {
			t.Fatalf("expected api key secret, got %#v", params["api_key"])
		}
	})

	t.Run("mistral key set", func(t *testing.T) {
		params, err := cfg.ModelParameters("mistral")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []string{"base_url", "model", "temperature"}
		if got := sortedParamKeys(params); !reflect.DeepEqual(got, want) {
			t.Fatalf("unexpected keys %v", got)
		}
		if params["base_url"] != "http://localhost:11434" {
			t.Fatalf("unexpected base url %v", params["base_url"])
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		upper, err := cfg.ModelParameters("GEMINI")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lower, err := cfg.ModelParameters("gemini")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(upper, lower) {
			t.Fatalf("expected identical projections, got %v and %v", upper, lower)
		}
		if _, err := cfg.ModelParameters("  Mistral "); err != nil {
			t.Fatalf("expected trimmed name to resolve: %v", err)
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := cfg.ModelParameters("claude")
		var uerr *UnsupportedBackendError
		if !errors.As(err, &uerr) || uerr.Backend != "claude" {
			t.Fatalf("expected UnsupportedBackendError, got %v", err)
		}
		if !errors.Is(err, ErrUnsupportedBackend) {
			t.Fatalf("expected error to match ErrUnsupportedBackend")
		}
		if got := err.Error(); got != `unsupported model backend "claude" (supported: gemini, mistral)` {
			t.Fatalf("unexpected message: %s", got)
		}
	})
}

func TestModelParametersAbsentSecret(t *testing.T) {
	cfg, err := Load(testOptions(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	params, err := cfg.ModelParameters("gemini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key := params["api_key"].(Secret); key.IsSet() {
		t.Fatalf("expected absent api key")
	}
}

func TestSupportedBackendsReturnsCopy(t *testing.T) {
	backends := SupportedBackends()
	backends[0] = "mutated"
	if SupportedBackends()[0] != BackendGemini {
		t.Fatalf("SupportedBackends exposed internal slice")
	}
}

func sortedParamKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
