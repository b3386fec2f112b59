// Package cli implements the molscene command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/molscene/internal/config"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molscene/pkg/client"
	"github.com/turtacn/molscene/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("molscene %s (commit: %s, built: %s)", b.Version, b.Commit, b.BuildDate)
}

// CurrentBuildInfo returns the injected build variables.
func CurrentBuildInfo() BuildInfo {
	return BuildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate}
}

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
	ServerAddr   string
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigPath   string
	Logger       logging.Logger
	Backend      Backend
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// NewRootCommand creates the root command with its global flags and every
// subcommand.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "molscene",
		Short:   "molscene turns MOL2 files and alkane chains into 3D scene descriptors",
		Long:    "molscene parses Tripos MOL2 molecules, generates straight-chain alkanes and\nframes the result for a camera, emitting render-ready scene descriptors.",
		Version: CurrentBuildInfo().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./molscene.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", logging.LevelWarn, "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, yaml, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "per-command timeout")
	pf.StringVar(&opts.ServerAddr, "server", "", "apiserver URL; commands run in-process when empty")

	cmd.AddCommand(
		NewParseCmd(),
		NewAlkaneCmd(),
		NewSmilesCmd(),
		NewFrameCmd(),
		NewFilesCmd(),
		NewCacheCmd(),
		NewServeCmd(),
		NewVersionCmd(),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch opts.OutputFormat {
	case OutputText, OutputJSON, OutputYAML, OutputTable:
	default:
		return errors.New(errors.ErrCodeValidation, "unknown output format").WithDetail(opts.OutputFormat)
	}
	if opts.NoColor {
		color.NoColor = true
	}

	cfg, path, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	if path == "" {
		logger.Debug("no config file found, using defaults")
	} else {
		logger.Debug("loaded config", logging.String("path", path))
	}

	backend, err := initBackend(cfg, opts, logger)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigPath:   path,
		Logger:       logger,
		Backend:      backend,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// configSearchPaths lists where a config file is looked for when --config is
// not given.
func configSearchPaths() []string {
	paths := []string{"./molscene.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".molscene", "config.yaml"))
	}
	return append(paths, "/etc/molscene/config.yaml")
}

// initConfig loads configuration with priority: env > file > defaults.  The
// returned path is empty when no file was used.
func initConfig(opts *RootOptions) (*config.Config, string, error) {
	path := opts.ConfigPath
	if path == "" {
		for _, p := range configSearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		cfg, err := config.Load()
		return cfg, "", err
	}
	cfg, err := config.Load(config.WithConfigPath(path))
	return cfg, path, err
}

// initLogger creates a console logger on stderr so that stdout carries only
// command output.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func initBackend(cfg *config.Config, opts *RootOptions, logger logging.Logger) (Backend, error) {
	if opts.ServerAddr == "" {
		return newLocalBackend(cfg, logger), nil
	}
	c, err := client.NewClient(opts.ServerAddr,
		client.WithLogger(clientLogger{logger.Named("client")}),
		client.WithUserAgent("molscene-cli/"+Version),
		client.WithTimeout(opts.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid --server: %w", err)
	}
	return remoteBackend{client: c}, nil
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds a single command by --timeout.
func (c *CLIContext) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), c.Timeout)
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ExitCode maps an error to a process exit status: 2 for input the user can
// fix, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return 2
	}
	if status := errors.HTTPStatusForCode(errors.GetCode(err)); status >= 400 && status < 500 {
		return 2
	}
	return 1
}
