package config

import "github.com/spf13/afero"

const (
	// LogsDir and TempDir are always created next to the configured output directories.
	LogsDir = "logs"
	TempDir = "temp"
)

// Directories lists the output directories EnsureDirectories creates, relative to
// the working directory.
func (c *Config) Directories() []string {
	return []string{c.Data.ChartsDir, c.Data.ReportsDir, LogsDir, TempDir}
}

// EnsureDirectories creates every output directory that does not exist yet. It is
// idempotent and safe to call concurrently. The first failure is returned as a
// *DirectoryCreationError and nothing is retried.
func (c *Config) EnsureDirectories() error {
	filesystem := c.fs
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}

	for _, dir := range c.Directories() {
		if err := filesystem.MkdirAll(dir, 0o755); err != nil {
			return &DirectoryCreationError{Path: dir, Err: err}
		}
	}
	return nil
}
