package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultInputName    = "unitpro.xef"
	defaultCatalogDir   = "catalogs"
	defaultOrganization = "VALE"
)

// Environment variables read by LoadConfig. Flags take precedence.
const (
	envInput        = "IOMATRIX_INPUT"
	envOutputDir    = "IOMATRIX_OUTPUT_DIR"
	envCatalogDir   = "IOMATRIX_CATALOG_DIR"
	envOrganization = "IOMATRIX_ORGANIZATION"
	envLogLevel     = "IOMATRIX_LOG_LEVEL"
	envLogFormat    = "IOMATRIX_LOG_FORMAT"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config holds everything one generator run needs.
type Config struct {
	InputPath    string // project export (.xef)
	OutputDir    string // where the workbook is written
	CatalogDir   string // extra module catalog YAML files
	Organization string

	LogLevel    string
	LogFormat   string
	StrictSlots bool
	Dump        bool

	// Date is the report revision date
	Date time.Time
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Date.IsZero() {
		cfg.Date = time.Now()
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}

// LoadConfig builds a Config from command-line arguments, falling back to
// environment variables and then to defaults. It returns a boolean telling the
// caller to exit cleanly (help or version requested).
func LoadConfig(args []string, output io.Writer, getenv func(string) string) (*Config, bool, error) {
	flagSet := flag.NewFlagSet("iomatrix", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
iomatrix - Remote I/O list generator for Unity Pro project exports.

Usage:
  iomatrix [options] [XEF_PATH]

Arguments:
  XEF_PATH
    Path to the project export. Defaults to unitpro.xef in the working
    directory or next to the executable.

Options:
`)
		flagSet.PrintDefaults()
	}

	inFlag := flagSet.String("in", "", "Path to the project export (.xef).")
	outFlag := flagSet.String("out", envOr(getenv, envOutputDir, "."), "Directory for the generated workbook.")
	catalogFlag := flagSet.String("catalogs", envOr(getenv, envCatalogDir, defaultCatalogDir), "Directory with extra module catalog YAML files.")
	orgFlag := flagSet.String("org", envOr(getenv, envOrganization, defaultOrganization), "Organization printed on every page.")
	strictFlag := flagSet.Bool("strict", false, "Reject two modules declared at the same drop and slot.")
	dumpFlag := flagSet.Bool("dump", false, "Print the resolved matrix as YAML.")
	logLevelFlag := flagSet.String("log-level", envOr(getenv, envLogLevel, "info"), "Logging level: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", envOr(getenv, envLogFormat, "text"), "Log output format: 'text' or 'json'.")
	versionFlag := flagSet.Bool("version", false, "Print the version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if *versionFlag {
		fmt.Fprintf(output, "iomatrix v%s\n", Version)
		return nil, true, nil
	}

	path := *inFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		path = getenv(envInput)
	}
	if path == "" {
		path = defaultInputPath()
	}

	cfg, err := NewConfig(Config{
		InputPath:    path,
		OutputDir:    *outFlag,
		CatalogDir:   *catalogFlag,
		Organization: *orgFlag,
		LogLevel:     *logLevelFlag,
		LogFormat:    *logFormatFlag,
		StrictSlots:  *strictFlag,
		Dump:         *dumpFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return cfg, false, nil
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

// defaultInputPath prefers unitpro.xef in the working directory, then the one
// next to the executable.
func defaultInputPath() string {
	if _, err := os.Stat(defaultInputName); err == nil {
		return defaultInputName
	}
	exe, err := os.Executable()
	if err != nil {
		return defaultInputName
	}
	return filepath.Join(filepath.Dir(exe), defaultInputName)
}
