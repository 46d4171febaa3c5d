package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/eugenenazirov/csveda/internal/application"
	"github.com/eugenenazirov/csveda/internal/config"
	"github.com/eugenenazirov/csveda/internal/logging"
)

var signalNotify = signal.Notify

type cli struct {
	app        *kingpin.Application
	configFile *string
	envFile    *string
	sets       *map[string]string
	port       *string

	serve    *kingpin.CmdClause
	noDirs   *bool
	show     *kingpin.CmdClause
	model    *kingpin.CmdClause
	backend  *string
	initDirs *kingpin.CmdClause
}

func newCLI() *cli {
	app := kingpin.New("csveda", "CSVEDA settings service - resolves, validates and serves application configuration")
	c := &cli{app: app}

	c.configFile = app.Flag("config", "Path to a YAML file with explicit setting overrides").String()
	c.envFile = app.Flag("env-file", "Environment file to read (empty disables)").Default(config.DefaultEnvFile).String()
	c.sets = app.Flag("set", "Explicit override as key=value, e.g. gemini.temperature=0.2 (repeatable)").Short('s').StringMap()
	c.port = app.Flag("port", "HTTP port exposed by the settings API").String()

	c.serve = app.Command("serve", "Serve the resolved configuration over HTTP").Default()
	c.noDirs = c.serve.Flag("no-dirs", "Skip creating output directories on startup").Bool()
	c.show = app.Command("show", "Print the resolved configuration with secrets redacted")
	c.model = app.Command("model", "Print the parameters for a model backend")
	c.backend = c.model.Arg("backend", "Backend name (gemini or mistral)").Required().String()
	c.initDirs = app.Command("init-dirs", "Create the configured output directories")

	return c
}

// options turns the global flags into loader options. CLI flags take precedence
// over the YAML overrides file.
func (c *cli) options(fs afero.Fs) (config.Options, error) {
	opts := config.DefaultOptions()
	opts.FS = fs
	opts.EnvFile = *c.envFile

	overrides := map[string]string{}
	if *c.configFile != "" {
		fileOverrides, err := config.LoadOverridesFile(fs, *c.configFile)
		if err != nil {
			return config.Options{}, err
		}
		overrides = fileOverrides
	}

	flags := map[string]string{}
	for k, v := range *c.sets {
		flags[k] = v
	}
	if *c.port != "" {
		flags["server.port"] = *c.port
	}

	merged, err := config.MergeOverrides(overrides, flags)
	if err != nil {
		return config.Options{}, err
	}
	opts.Overrides = merged
	return opts, nil
}

func main() {
	c := newCLI()
	command := kingpin.MustParse(c.app.Parse(os.Args[1:]))

	if err := run(c, command, afero.NewOsFs(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "csveda: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli, command string, fs afero.Fs, out io.Writer) error {
	opts, err := c.options(fs)
	if err != nil {
		return fmt.Errorf("invalid overrides: %w", err)
	}

	cfg, err := config.Initialize(opts)
	if err != nil && !errors.Is(err, config.ErrAlreadyInitialized) {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch command {
	case c.show.FullCommand():
		return cfg.WriteYAML(out)
	case c.model.FullCommand():
		return printModel(cfg, *c.backend, out)
	case c.initDirs.FullCommand():
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}
		for _, dir := range cfg.Directories() {
			fmt.Fprintln(out, dir)
		}
		return nil
	default:
		return serve(cfg, !*c.noDirs)
	}
}

func printModel(cfg *config.Config, backend string, out io.Writer) error {
	params, err := cfg.ModelParameters(backend)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := params[k]
		if secret, ok := value.(config.Secret); ok && !secret.IsSet() {
			value = "<unset>"
		}
		fmt.Fprintf(out, "%s: %v\n", k, value)
	}
	return nil
}

func serve(cfg *config.Config, ensureDirs bool) error {
	logger, err := logging.New(cfg.Logging, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if ensureDirs {
		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}
	}

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize application", zap.Error(err))
		return err
	}

	if err := app.Start(); err != nil {
		logger.Error("failed to start server", zap.Error(err))
		return err
	}

	shutdown(app.Server(), cfg.Server.ShutdownGracePeriod, logger)
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
