package config

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type globalState struct {
	cfg *Config
	err error
}

var (
	globalMu sync.Mutex
	current  atomic.Pointer[globalState]
)

// Initialize resolves the process-wide configuration with explicit options. It
// constructs at most once: when the global already exists its instance is returned
// together with ErrAlreadyInitialized, or the cached construction error.
func Initialize(opts Options) (*Config, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if s := current.Load(); s != nil {
		if s.err != nil {
			return nil, s.err
		}
		return s.cfg, ErrAlreadyInitialized
	}
	return store(opts)
}

// Get returns the process-wide configuration, resolving it with DefaultOptions on
// first access. A failed resolution is cached and returned on every call.
func Get() (*Config, error) {
	if s := current.Load(); s != nil {
		return s.cfg, s.err
	}

	globalMu.Lock()
	defer globalMu.Unlock()

	if s := current.Load(); s != nil {
		return s.cfg, s.err
	}
	return store(DefaultOptions())
}

// MustGet is Get that panics on error.
func MustGet() *Config {
	cfg, err := Get()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Reset discards the process-wide configuration so the next Get or Initialize
// constructs it again. Intended for tests.
func Reset() {
	globalMu.Lock()
	current.Store(nil)
	globalMu.Unlock()
}

// ModelParameters projects the global configuration for backend.
func ModelParameters(backend string) (map[string]any, error) {
	cfg, err := Get()
	if err != nil {
		return nil, err
	}
	return cfg.ModelParameters(backend)
}

// EnsureDirectories creates the output directories of the global configuration.
func EnsureDirectories() error {
	cfg, err := Get()
	if err != nil {
		return err
	}
	return cfg.EnsureDirectories()
}

// store must be called with globalMu held.
func store(opts Options) (*Config, error) {
	cfg, err := Load(opts)
	current.Store(&globalState{cfg: cfg, err: err})
	return cfg, err
}
