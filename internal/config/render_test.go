package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecretRedaction(t *testing.T) {
	s := Secret("super-secret")

	if s.String() != redacted || fmt.Sprintf("%v", s) != redacted || fmt.Sprintf("%#v", s) != redacted {
		t.Fatalf("secret leaked through formatting")
	}
	data, err := json.Marshal(struct{ Key Secret }{Key: s})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "super-secret") {
		t.Fatalf("secret leaked through JSON: %s", data)
	}
	if s.Reveal() != "super-secret" {
		t.Fatalf("Reveal must return the raw value")
	}

	var empty Secret
	if empty.IsSet() || empty.String() != "" {
		t.Fatalf("empty secret must be absent")
	}
	data, _ = json.Marshal(empty)
	if string(data) != "null" {
		t.Fatalf("expected null for absent secret, got %s", data)
	}
}

func TestRedactedTree(t *testing.T) {
	opts := testOptions(t)
	opts.Environ = environ("OPENAI_API_KEY=sk-live")
	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	tree := cfg.Redacted()
	if tree["openai_api_key"] != redacted {
		t.Fatalf("expected redacted openai key, got %v", tree["openai_api_key"])
	}
	if tree["google_api_key"] != nil {
		t.Fatalf("expected absent google key, got %v", tree["google_api_key"])
	}
	server, ok := tree["server"].(map[string]any)
	if !ok || server["write_timeout"] != "15s" {
		t.Fatalf("unexpected server subtree %v", tree["server"])
	}

	var buf bytes.Buffer
	if err := cfg.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML returned error: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "sk-live") {
		t.Fatalf("secret leaked through YAML:\n%s", out)
	}
	if !strings.Contains(out, "temperature: 0.1") || !strings.Contains(out, "level: INFO") {
		t.Fatalf("unexpected YAML:\n%s", out)
	}
}
