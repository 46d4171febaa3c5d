// Package config resolves the CSVEDA configuration tree from compiled-in defaults,
// an environment file, process environment variables and explicit overrides, with
// precedence: overrides > env file > environment variables > defaults. Every field
// is validated once at construction; the result is exposed as a process-wide
// singleton together with backend projections and a directory bootstrap helper.
package config
