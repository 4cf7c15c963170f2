package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/genflow/job"
	"github.com/jonwraymond/genflow/observe"
	"github.com/jonwraymond/genflow/storage"
)

const serviceName = "genflow"

var errNoBaseURL = errors.New("GENFLOW_BASE_URL is not set")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "genflow",
		Short:         "Resolve generation requests through a result cache and async job service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newResolveCmd(),
		newCacheCmd(),
	)
	return root
}

// runtime bundles everything a command needs.
type runtime struct {
	cfg      config
	backend  storage.Backend
	client   *job.Client
	inst     *observe.Instrument
	observer observe.Observer
}

// newRuntime assembles the shared pieces from the environment. A
// failing durable medium degrades to memory-only storage rather than
// refusing to run.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var backend storage.Backend
	if fb, err := storage.NewFileBackend(cfg.DataDir); err == nil {
		backend = fb
	} else {
		backend = storage.NewMemoryBackend()
	}

	observer, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: serviceName,
		Tracing: observe.TracingConfig{
			Enabled:   cfg.TracingExporter != "",
			Exporter:  cfg.TracingExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.MetricsExporter != "",
			Exporter: cfg.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   cfg.LogLevel,
		},
	})
	if err != nil {
		return nil, err
	}

	inst, err := observe.InstrumentFromObserver(observer)
	if err != nil {
		return nil, err
	}

	var client *job.Client
	if cfg.BaseURL != "" {
		httpClient := &http.Client{Timeout: job.DefaultHTTPTimeout}
		if cfg.ServiceKey != "" {
			httpClient.Transport = job.NewServiceTokenTransport(nil, job.ServiceTokenConfig{
				Key:      []byte(cfg.ServiceKey),
				Issuer:   cfg.TokenIssuer,
				Audience: cfg.TokenAudience,
				Subject:  uuid.NewString(),
			})
		}
		client = job.NewClient(job.Config{BaseURL: cfg.BaseURL, HTTPClient: httpClient})
	}

	return &runtime{
		cfg:      cfg,
		backend:  backend,
		client:   client,
		inst:     inst,
		observer: observer,
	}, nil
}

func (r *runtime) shutdown(ctx context.Context) {
	_ = r.observer.Shutdown(ctx)
}

// namespace builds the storage namespace for one feature and kind.
func (r *runtime) namespace(feature, kind string) storage.Namespace {
	return storage.Namespace{
		App:     r.cfg.App,
		Feature: feature,
		Kind:    kind,
		Version: r.cfg.CacheVersion,
	}
}
