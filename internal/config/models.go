package config

import "strings"

// Backend names a supported model provider.
type Backend string

const (
	BackendGemini  Backend = "gemini"
	BackendMistral Backend = "mistral"
)

var supportedBackends = []Backend{BackendGemini, BackendMistral}

// SupportedBackends returns the closed set of backends ModelParameters accepts.
func SupportedBackends() []Backend {
	out := make([]Backend, len(supportedBackends))
	copy(out, supportedBackends)
	return out
}

// ParseBackend matches name against the supported backends, ignoring case and
// surrounding whitespace.
func ParseBackend(name string) (Backend, error) {
	candidate := Backend(strings.ToLower(strings.TrimSpace(name)))
	for _, b := range supportedBackends {
		if b == candidate {
			return b, nil
		}
	}
	return "", &UnsupportedBackendError{Backend: name}
}

// ModelParameters projects the settings relevant to backend. The key set is fixed
// per backend:
//
//	gemini:  model, temperature, max_output_tokens, max_retries, request_timeout, api_key
//	mistral: model, base_url, temperature
//
// api_key holds a Secret which may be absent.
func (c *Config) ModelParameters(backend string) (map[string]any, error) {
	b, err := ParseBackend(backend)
	if err != nil {
		return nil, err
	}

	switch b {
	case BackendGemini:
		return map[string]any{
			"model":             c.Gemini.Model,
			"temperature":       c.Gemini.Temperature,
			"max_output_tokens": c.Gemini.MaxOutputTokens,
			"max_retries":       c.Gemini.MaxRetries,
			"request_timeout":   c.Gemini.RequestTimeout,
			"api_key":           c.GoogleAPIKey,
		}, nil
	case BackendMistral:
		return map[string]any{
			"model":       c.Mistral.Model,
			"base_url":    c.Mistral.BaseURL,
			"temperature": c.Mistral.Temperature,
		}, nil
	}
	return nil, &UnsupportedBackendError{Backend: backend}
}
