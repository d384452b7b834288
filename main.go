package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Version can be set during build time
var Version = "dev"

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	_ = godotenv.Load()

	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses the configuration and generates the report. Logs go to logW,
// the optional YAML dump goes to outW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	cfg, shouldExit, err := LoadConfig(args, outW, os.Getenv)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = withLogger(ctx, logger)
	logger.Debug("Configuration loaded.", "input", cfg.InputPath, "output", cfg.OutputDir, "catalogs", cfg.CatalogDir)

	path, err := Generate(ctx, cfg, outW)
	if err != nil {
		return err
	}

	logger.Info("Processing complete.", "report", path)
	return nil
}
