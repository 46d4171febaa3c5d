package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// DefaultEnvFile is the environment file read by DefaultOptions.
const DefaultEnvFile = ".env"

// Source identifies the layer a setting was resolved from.
type Source string

const (
	SourceDefault     Source = "default"
	SourceEnvironment Source = "environment"
	SourceEnvFile     Source = "env-file"
	SourceOverride    Source = "override"
)

// Options controls where Load reads settings from.
type Options struct {
	// Overrides are explicit values keyed by dotted key (gemini.temperature) or
	// environment variable name (GEMINI_TEMPERATURE). Keys are case-insensitive.
	Overrides map[string]string
	// EnvFile is a dotenv file. Empty disables it; a missing file is skipped.
	EnvFile string
	// Environ returns the process environment in KEY=value form.
	Environ func() []string
	// FS is used for the env file and for EnsureDirectories.
	FS afero.Fs
}

// DefaultOptions reads .env and the real process environment from the OS filesystem.
func DefaultOptions() Options {
	return Options{
		EnvFile: DefaultEnvFile,
		Environ: os.Environ,
		FS:      afero.NewOsFs(),
	}
}

// layer is one source of raw values keyed by normalized name.
type layer struct {
	source Source
	byEnv  bool
	values map[string]string
}

func (l layer) lookup(f *field) (string, bool) {
	name := f.key
	if l.byEnv {
		if f.env == "" {
			return "", false
		}
		name = f.env
	}
	v, ok := l.values[normalizeKey(name)]
	return v, ok
}

// Load resolves the configuration from multiple sources with precedence:
// Overrides > env file > environment variables > defaults.
// Every declared constraint is checked before Load returns.
func Load(opts Options) (*Config, error) {
	filesystem := opts.FS
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}

	overrides, err := normalizeOverrides(opts.Overrides)
	if err != nil {
		return nil, err
	}

	fileValues, err := readEnvFile(filesystem, opts.EnvFile)
	if err != nil {
		return nil, err
	}

	layers := []layer{
		{source: SourceOverride, values: overrides},
		{source: SourceEnvFile, byEnv: true, values: fileValues},
		{source: SourceEnvironment, byEnv: true, values: environMap(opts.Environ)},
	}

	cfg := Default()
	cfg.fs = filesystem
	cfg.sources = make(map[string]Source)

	target := reflect.ValueOf(&cfg).Elem()
	table := fields()

	var errs error
	for i := range table {
		f := &table[i]
		for _, l := range layers {
			raw, ok := l.lookup(f)
			if !ok {
				continue
			}
			if err := f.set(target, raw); err != nil {
				errs = multierr.Append(errs, err)
			} else {
				cfg.sources[normalizeKey(f.key)] = l.source
			}
			break
		}
	}

	// Fields that failed to parse keep their valid default, so they are not reported twice.
	errs = multierr.Append(errs, validateConfig(&cfg))
	if errs != nil {
		return nil, errs
	}

	return &cfg, nil
}

// normalizeOverrides maps override names to field keys. Unknown names and two
// spellings of the same setting are rejected. A blank value is kept: it clears a
// secret and fails validation for every other setting.
func normalizeOverrides(raw map[string]string) (map[string]string, error) {
	canonical, errs := canonicalOverrides(raw)

	out := make(map[string]string, len(canonical))
	for _, key := range sortedKeys(canonical) {
		value := canonical[key]
		f, ok := lookupField(key)
		if !ok {
			errs = multierr.Append(errs, &ValidationError{
				Field:  key,
				Value:  strconv.Quote(value),
				Domain: "a known setting",
			})
			continue
		}
		out[normalizeKey(f.key)] = value
	}
	return out, errs
}

// canonicalOverrides rekeys raw by dotted field key. Names that match no setting are
// kept as given. When several names resolve to one setting the first spelling in
// sorted order is kept and the collision is reported.
func canonicalOverrides(raw map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	spelledAs := make(map[string]string, len(raw))

	var errs error
	for _, name := range sortedKeys(raw) {
		key := name
		if f, ok := lookupField(name); ok {
			key = f.key
		}
		if prev, dup := spelledAs[key]; dup {
			errs = multierr.Append(errs, &ValidationError{
				Field:  key,
				Value:  fmt.Sprintf("%s=%q, %s=%q", prev, raw[prev], name, raw[name]),
				Domain: "a single spelling per setting",
			})
			continue
		}
		spelledAs[key] = name
		out[key] = raw[name]
	}
	return out, errs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readEnvFile parses a dotenv file without touching the process environment.
func readEnvFile(filesystem afero.Fs, path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	file, err := filesystem.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &LoadError{File: path, Err: err}
	}
	defer file.Close()

	parsed, err := godotenv.Parse(file)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}

	values := make(map[string]string, len(parsed))
	for k, v := range parsed {
		if strings.TrimSpace(v) == "" {
			continue
		}
		values[normalizeKey(k)] = v
	}
	return values, nil
}

// environMap indexes KEY=value pairs case-insensitively. When two names differ only
// by case, the upper-case spelling wins.
func environMap(environ func() []string) map[string]string {
	values := make(map[string]string)
	if environ == nil {
		return values
	}

	exact := make(map[string]bool)
	for _, kv := range environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || strings.TrimSpace(value) == "" {
			continue
		}
		key := normalizeKey(name)
		isUpper := name == strings.ToUpper(name)
		if exact[key] && !isUpper {
			continue
		}
		values[key] = value
		if isUpper {
			exact[key] = true
		}
	}
	return values
}
