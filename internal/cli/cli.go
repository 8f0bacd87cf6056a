// Package cli implements the travelsnap command-line interface.
//
// # Commands
//
//   - serve: run the HTTP API for the web client
//   - composite: place a portrait into a landmark photo locally
//   - landmarks: list the built-in landmarks
//   - plan: print a trip itinerary
//   - cache: manage the file cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; serve then
// also logs pipeline, cache and HTTP events through observability hooks.
// The logger travels through the command context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/draddo11/Holiday/internal/config"
	"github.com/draddo11/Holiday/pkg/buildinfo"
	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/httputil"
	"github.com/draddo11/Holiday/pkg/integrations/replicate"
	"github.com/draddo11/Holiday/pkg/pipeline"
	"github.com/draddo11/Holiday/pkg/segment"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "travelsnap"

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

	// ConfigPath is the --config flag; empty means travelsnap.toml when present.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Travelsnap puts you in front of famous landmarks",
		Long:         `Travelsnap composites a portrait into a landmark photo and plans the trip around it. It runs as an HTTP API for the web client or as a one-shot command on local files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default "+config.DefaultFile+" when present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.compositeCommand())
	root.AddCommand(c.landmarksCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Wiring
// =============================================================================

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", c.ConfigPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// openCache opens the configured backend. One-shot commands gain nothing
// from an in-process cache, so they use the file cache instead.
func openCache(ctx context.Context, cfg config.Cache, oneShot, noCache bool) (cache.Cache, error) {
	switch {
	case noCache:
		cfg.Backend = config.CacheNone
	case oneShot && (cfg.Backend == "" || cfg.Backend == config.CacheMemory):
		cfg.Backend = config.CacheFile
	}
	return cfg.Open(ctx)
}

// newReplicate returns the hosted model client, or nil without a token.
func newReplicate(cfg config.Replicate) *replicate.Client {
	if cfg.Token == "" {
		return nil
	}
	return replicate.NewClient(cfg.Token, httputil.NewThrottle(cfg.MinInterval), cfg.Timeout)
}

// newRunner creates a pipeline runner. With a Replicate client the hosted
// remover is tried before the local corner key.
func (c *CLI) newRunner(backend cache.Cache, rc *replicate.Client, removerModel string) *pipeline.Runner {
	r := pipeline.NewRunner(backend, nil, c.Logger)
	if rc != nil {
		hosted := segment.NewReplicate(rc, nil)
		if removerModel != "" {
			hosted.Model = removerModel
		}
		r.Remover = segment.NewChain(c.Logger, segment.Passthrough{}, hosted, segment.DefaultCornerKey())
	}
	return r
}
