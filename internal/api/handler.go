package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eugenenazirov/csveda/internal/config"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler exposes the resolved configuration over HTTP. It never mutates it.
type Handler struct {
	cfg *config.Config

	clock func() time.Time

	mu                   sync.RWMutex
	directoriesEnsuredAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler serving cfg.
func NewHandler(cfg *config.Config, opts ...HandlerOption) *Handler {
	h := &Handler{
		cfg: cfg,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	_ = r
	sources := make(map[string]config.Source)
	for _, key := range config.Keys() {
		if src := h.cfg.Source(key); src != config.SourceDefault {
			sources[key] = src
		}
	}

	resp := settingsResponse{
		Settings: h.cfg.Redacted(),
		Sources:  sources,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetModel(w http.ResponseWriter, r *http.Request) {
	backend := r.PathValue("backend")

	params, err := h.cfg.ModelParameters(backend)
	if err != nil {
		var unsupported *config.UnsupportedBackendError
		if errors.As(err, &unsupported) {
			writeError(w, http.StatusBadRequest, "Unsupported backend", err.Error(),
				"Use one of: "+supportedBackendList())
			return
		}
		writeInternalError(w, err)
		return
	}

	// The credential itself never leaves the process; callers only learn whether it is set.
	if key, ok := params["api_key"].(config.Secret); ok {
		delete(params, "api_key")
		params["api_key_set"] = key.IsSet()
	}

	resp := modelResponse{
		Backend:    strings.ToLower(strings.TrimSpace(backend)),
		Parameters: params,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEnsureDirectories(w http.ResponseWriter, r *http.Request) {
	_ = r
	if err := h.cfg.EnsureDirectories(); err != nil {
		var dirErr *config.DirectoryCreationError
		if errors.As(err, &dirErr) {
			writeError(w, http.StatusInternalServerError, "Directory creation failed", err.Error(),
				"Check permissions for "+dirErr.Path)
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markDirectoriesEnsured()

	resp := directoriesResponse{
		Directories: h.cfg.Directories(),
		EnsuredAt:   h.currentDirectoriesEnsuredAt(),
		Message:     "Directories ready",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) currentDirectoriesEnsuredAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.directoriesEnsuredAt
}

func (h *Handler) markDirectoriesEnsured() {
	h.mu.Lock()
	h.directoriesEnsuredAt = h.clock()
	h.mu.Unlock()
}

func supportedBackendList() string {
	backends := config.SupportedBackends()
	names := make([]string, 0, len(backends))
	for _, b := range backends {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type settingsResponse struct {
	Settings map[string]any           `json:"settings"`
	Sources  map[string]config.Source `json:"sources"`
}

type modelResponse struct {
	Backend    string         `json:"backend"`
	Parameters map[string]any `json:"parameters"`
}

type directoriesResponse struct {
	Directories []string  `json:"directories"`
	EnsuredAt   time.Time `json:"ensuredAt"`
	Message     string    `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
