// Package main is the entry point for the schemakit schema service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/badibam/schemakit/internal/api"
	"github.com/badibam/schemakit/internal/cache"
	"github.com/badibam/schemakit/internal/config"
	"github.com/badibam/schemakit/internal/registry"
	"github.com/badibam/schemakit/internal/schema"
	"github.com/badibam/schemakit/internal/validation"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "schemakit",
		Short: "Schema composition and conditional validation engine",
		Long:  `schemakit composes declarative schema fragments, resolves conditional branches against context, and validates data trees.`,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("schemakit %s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the schema service",
		RunE:  runServe,
	}

	validateCmd := &cobra.Command{
		Use:   "validate <schema-file> <data-file>",
		Short: "Validate a data file against a schema file",
		Args:  cobra.ExactArgs(2),
		RunE:  runValidate,
	}
	validateCmd.Flags().Bool("partial", false, "Relax required constraints (update validation)")

	composeCmd := &cobra.Command{
		Use:   "compose <base-file> <specific-file>",
		Short: "Compose a base and a specific schema fragment",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompose,
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve <schema-file> <context-file>",
		Short: "Flatten conditional blocks against a context",
		Args:  cobra.ExactArgs(2),
		RunE:  runResolve,
	}

	rootCmd.AddCommand(versionCmd, serveCmd, validateCmd, composeCmd, resolveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting schemakit",
		slog.String("version", version),
		slog.String("address", cfg.Address()),
		slog.String("schema_dir", cfg.Schemas.Directory),
	)

	reg := registry.New(logger)
	if err := reg.LoadDirectory(cfg.Schemas.Directory); err != nil {
		return fmt.Errorf("failed to load schemas: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Schemas.Watch {
		if err := reg.Watch(ctx, cfg.Schemas.Directory); err != nil {
			return fmt.Errorf("failed to watch schema directory: %w", err)
		}
	}

	validator := validation.New(validation.Options{
		Cache: cache.Config{
			Enabled:  cfg.Cache.Enabled,
			Capacity: cfg.Cache.Capacity,
			TTL:      cfg.CacheTTL(),
		},
		Labeler:   reg,
		Separator: cfg.Separator(),
		Logger:    logger,
	})

	server := api.NewServer(cfg, reg, validator, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func runValidate(cmd *cobra.Command, args []string) error {
	partial, _ := cmd.Flags().GetBool("partial")

	doc, err := readDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	data, err := readDocument(args[1])
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}

	validator := validation.New(validation.Options{
		Cache:  cache.Config{Enabled: false},
		Logger: quietLogger(),
	})

	s := &schema.Schema{ID: args[0], Category: schema.CategoryTool, Content: doc}
	var result validation.Result
	if partial {
		result = validator.ValidatePartial(s, data)
	} else {
		result = validator.Validate(s, data)
	}

	if !result.IsValid {
		fmt.Fprintln(os.Stderr, result.ErrorMessage)
		os.Exit(1)
	}
	fmt.Println("valid")
	return nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	base, err := readDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read base fragment: %w", err)
	}
	specific, err := readDocument(args[1])
	if err != nil {
		return fmt.Errorf("failed to read specific fragment: %w", err)
	}

	composed, err := schema.Compose(base, specific)
	if err != nil {
		return err
	}
	return printJSON(composed)
}

func runResolve(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}
	ctx, err := readDocument(args[1])
	if err != nil {
		return fmt.Errorf("failed to read context: %w", err)
	}

	return printJSON(schema.Resolve(doc, ctx))
}

// readDocument reads a JSON or YAML document file into a generic tree.
func readDocument(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a command-line argument
	if err != nil {
		return nil, err
	}

	var doc map[string]interface{}
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newLogger builds the service logger from configuration, with rotation
// when a log file is configured.
func newLogger(cfg *config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.Logging.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
		}
	}

	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "text" {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
