package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netarc/internal/metrics"
	"github.com/matzehuels/netarc/internal/server"
	"github.com/matzehuels/netarc/pkg/cache"
	"github.com/matzehuels/netarc/pkg/pipeline"
)

// apiKeyScope separates API cache entries from CLI entries in a shared cache.
const apiKeyScope = "api:"

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routing API over HTTP",
		Long: `Serve the routing API over HTTP.

Routes:
  POST /v1/route             diagram JSON in, layout JSON out
  POST /v1/render?format=    diagram JSON in, rendered artifact out
  GET  /healthz              liveness probe
  GET  /metrics              Prometheus metrics`,
		Example: `  # Serve on the configured address
  netarc serve

  # Share a Redis cache between instances
  NETARC_REDIS_ADDR=localhost:6379 netarc serve --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			cc, err := cfg.OpenCache("")
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, apiKeyScope), c.Logger)
			runner.TTL = cfg.Cache.TTL
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics.New(reg).Install()

			srv := server.New(runner, c.Logger, server.Options{
				Defaults: pipeline.Options{
					Engine:      cfg.Router.Engine,
					Samples:     cfg.Router.Samples,
					Parallelism: cfg.Router.Parallelism,
				},
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
				Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			})

			c.Logger.Debug("starting api", "cache", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}
