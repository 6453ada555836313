package commands

import (
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/events"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	"git.home.luguber.info/inful/apidocgen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Output      string `short:"o" help:"Content directory for generated pages (overrides config)"`
	MetricsAddr string `name:"metrics-addr" help:"Address for the Prometheus metrics endpoint (overrides config)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	applyOutputOverride(cfg, w.Output)
	if w.MetricsAddr != "" {
		cfg.Watch.MetricsAddr = w.MetricsAddr
	}

	registry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	builder, cleanup := newBuilder(cfg)
	defer cleanup()
	builder.SetRecorder(recorder)

	service, err := watch.NewService(cfg, builder)
	if err != nil {
		return err
	}
	service.SetMetricsHandler(metrics.HTTPHandler(registry))

	if cfg.Watch.NATSURL != "" {
		publisher, err := events.NewPublisher(cfg.Watch.NATSURL, cfg.Watch.NATSSubject)
		if err != nil {
			slog.Warn("event publishing disabled", logfields.Error(err))
		} else {
			defer publisher.Close()
			service.SetPublisher(publisher)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := service.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("watch stopped")
	return nil
}
