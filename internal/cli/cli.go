package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/routetrace/pkg/buildinfo"
	"github.com/matzehuels/routetrace/pkg/cache"
	rterrors "github.com/matzehuels/routetrace/pkg/errors"
	"github.com/matzehuels/routetrace/pkg/observability"
	"github.com/matzehuels/routetrace/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "routetrace"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "routetrace",
		Short: "Routetrace traces shortest routes step by step",
		Long: `Routetrace computes shortest routes on small weighted maps and records every
step of the search, so the computation can be inspected, replayed and exported.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/routetrace/config.toml)")

	root.AddCommand(c.graphCommand())
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.stepsCommand())
	root.AddCommand(c.matrixCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.SetPipelineHooks(observability.NewLogPipelineHooks(c.Logger))
		observability.SetCacheHooks(observability.NewLogCacheHooks(c.Logger))
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// location.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/routetrace/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Errors
// =============================================================================

// PrintError writes err to w the way commands report failures: the user
// message first, then one indented line per validation problem.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+rterrors.UserMessage(err))
	for _, p := range rterrors.Problems(err) {
		fmt.Fprintln(w, "  "+StyleDim.Render(p))
	}
	if rterrors.GetCode(err) != "" {
		if cause := errors.Unwrap(err); cause != nil {
			fmt.Fprintln(w, "  "+StyleDim.Render(cause.Error()))
		}
	}
}
