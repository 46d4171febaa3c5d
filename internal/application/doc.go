// Package application wires the resolved configuration, logger, settings API
// router and HTTP server together, keeping the main package focused on CLI
// parsing and orchestration.
package application
