package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/draddo11/Holiday/internal/api"
	"github.com/draddo11/Holiday/internal/config"
	"github.com/draddo11/Holiday/pkg/buildinfo"
	"github.com/draddo11/Holiday/pkg/cache"
	"github.com/draddo11/Holiday/pkg/integrations/gemini"
	"github.com/draddo11/Holiday/pkg/integrations/openmeteo"
	"github.com/draddo11/Holiday/pkg/integrations/serpapi"
	"github.com/draddo11/Holiday/pkg/observability"
	"github.com/draddo11/Holiday/pkg/producer"
	"github.com/draddo11/Holiday/pkg/travel"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by the web client.

Credentials come from the environment (REPLICATE_API_TOKEN, SERPAPI_API_KEY,
GEMINI_API_KEY). Endpoints whose upstream is not configured answer from the
built-in tables, and photos fall back to the local compositor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config and "+config.EnvAddr+")")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	if c.Logger.GetLevel() <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	backend, err := openCache(ctx, cfg.Cache, false, false)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	rc := newReplicate(cfg.Replicate)
	runner := c.newRunner(backend, rc, cfg.Replicate.RemoverModel)
	defer runner.Close()

	deps := api.Deps{
		Logger:        c.Logger,
		Data:          travel.Default(),
		Runner:        runner,
		Weather:       openmeteo.NewClient(backend, cache.TTLBackground),
		Defaults:      cfg.Composite,
		AllowedOrigin: cfg.Server.AllowedOrigin,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		Version:       buildinfo.Version,
	}
	if rc != nil {
		ai := producer.NewAI(rc, runner.Acquirer)
		if cfg.Replicate.GeneratorModel != "" {
			ai.Model = cfg.Replicate.GeneratorModel
		}
		deps.AI = ai
	}
	if cfg.SerpAPI.APIKey != "" {
		deps.Search = serpapi.NewClient(backend, cfg.SerpAPI.APIKey, cfg.SerpAPI.TTL)
	}
	if cfg.Gemini.APIKey != "" {
		g, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.TextModel, cfg.Gemini.ImageModels)
		if err != nil {
			return err
		}
		g.Logger = c.Logger
		deps.Gemini = g
	}

	c.Logger.Info("starting travelsnap",
		"version", buildinfo.Version,
		"cache", cfg.Cache.Backend,
		"ai", deps.AI != nil,
		"serpapi", deps.Search != nil,
		"gemini", deps.Gemini != nil,
	)
	return api.New(deps).ListenAndServe(ctx, cfg.Server)
}
