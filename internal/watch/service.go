package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/events"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/module"
	"git.home.luguber.info/inful/apidocgen/internal/pipeline"
	"git.home.luguber.info/inful/apidocgen/internal/report"
)

// Service runs continuous documentation builds: filesystem changes trigger
// debounced incremental runs, and an optional schedule forces periodic full
// rebuilds.
type Service struct {
	cfg       *config.Config
	builder   *pipeline.Builder
	publisher *events.Publisher
	metricsH  http.Handler

	debounce     time.Duration
	rebuildEvery time.Duration

	mu      sync.Mutex
	lastRun time.Time
}

// NewService creates a watch service around a builder.
func NewService(cfg *config.Config, builder *pipeline.Builder) (*Service, error) {
	debounce, err := time.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		return nil, fmt.Errorf("invalid debounce duration %q: %w", cfg.Watch.Debounce, err)
	}

	var rebuildEvery time.Duration
	if cfg.Watch.RebuildInterval != "" {
		rebuildEvery, err = time.ParseDuration(cfg.Watch.RebuildInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid rebuild interval %q: %w", cfg.Watch.RebuildInterval, err)
		}
	}

	return &Service{
		cfg:          cfg,
		builder:      builder,
		debounce:     debounce,
		rebuildEvery: rebuildEvery,
	}, nil
}

// SetPublisher injects a build event publisher (optional).
func (s *Service) SetPublisher(p *events.Publisher) { s.publisher = p }

// SetMetricsHandler injects the handler served on the metrics address.
func (s *Service) SetMetricsHandler(h http.Handler) { s.metricsH = h }

// Run blocks until the context is canceled. An initial full build runs
// before watching starts so the site is complete from the first moment.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Watch.MetricsAddr != "" && s.metricsH != nil {
		go s.serveMetrics(ctx)
	}

	s.runBuild(ctx, pipeline.Options{})

	pkgDir, err := module.NewDiscovery(s.cfg.Package).PackageDir()
	if err != nil {
		return err
	}

	watcher, err := NewSourceWatcher(pkgDir, s.cfg.Package.Extension, s.cfg.Package.PackageMarker)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Start(ctx); err != nil {
		return err
	}

	scheduler, err := s.startScheduler(ctx)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-watcher.Events:
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			s.runBuild(ctx, s.incrementalOptions())
		}
	}
}

// incrementalOptions covers everything modified since the last run, with a
// margin so a slow editor save is never missed.
func (s *Service) incrementalOptions() pipeline.Options {
	s.mu.Lock()
	last := s.lastRun
	s.mu.Unlock()

	since := time.Since(last) + time.Minute
	return pipeline.Options{Since: since}
}

func (s *Service) runBuild(ctx context.Context, opts pipeline.Options) {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	rep, err := s.builder.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		slog.Error("build run failed", logfields.Error(err))
	}
	if rep != nil {
		s.publish(rep)
	}
}

func (s *Service) publish(rep *report.RunReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRun(rep); err != nil {
		slog.Warn("failed to publish run report", logfields.Error(err))
	}
}

// startScheduler sets up the periodic full rebuild, if configured.
func (s *Service) startScheduler(ctx context.Context) (gocron.Scheduler, error) {
	if s.rebuildEvery <= 0 {
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.rebuildEvery),
		gocron.NewTask(func() {
			slog.Info("scheduled full rebuild")
			s.runBuild(ctx, pipeline.Options{Clean: true})
		}),
		gocron.WithName("full-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule rebuild job: %w", err)
	}

	scheduler.Start()
	slog.Info("scheduled periodic rebuilds", slog.Duration("interval", s.rebuildEvery))
	return scheduler, nil
}

func (s *Service) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metricsH)
	server := &http.Server{Addr: s.cfg.Watch.MetricsAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", slog.String("addr", s.cfg.Watch.MetricsAddr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("metrics server failed", logfields.Error(err))
	}
}
