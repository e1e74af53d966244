package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gemgo"
	"github.com/hupe1980/gemgo/codec"
	"github.com/hupe1980/gemgo/gemstore"
	promcollector "github.com/hupe1980/gemgo/metrics/prometheus"
	"github.com/hupe1980/gemgo/model"
	"github.com/hupe1980/gemgo/resource"
)

// app holds state shared by all subcommands.
type app struct {
	configPath  string
	backend     string
	storePath   string
	logLevel    string
	metricsAddr string

	cfg     Config
	logger  *gemgo.Logger
	metrics gemgo.MetricsCollector
	server  *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "gemorder",
		Short:         "Order flashcard decks by facet dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.shutdown(cmd.Context())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	f.StringVar(&a.backend, "backend", "", "blob store backend (memory, local, s3, minio)")
	f.StringVar(&a.storePath, "store-path", "", "root directory of the local backend")
	f.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	cmd.AddCommand(newOrderCmd(a), newStatsCmd(a), newReviewCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("backend") {
		cfg.Store.Backend = a.backend
	}
	if f.Changed("store-path") {
		cfg.Store.Path = a.storePath
	}
	if f.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = a.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.logger, err = cfg.Log.Logger(cmd.ErrOrStderr()); err != nil {
		return err
	}

	if cfg.MetricsAddr == "" {
		a.metrics = &gemgo.BasicMetricsCollector{}
		return nil
	}
	return a.serveMetrics(cfg.MetricsAddr)
}

func (a *app) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	a.metrics = promcollector.NewCollector(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "error", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", ln.Addr().String())
	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// openStore builds the gem store over the configured backend.
func (a *app) openStore(ctx context.Context) (*gemstore.Store, error) {
	c, ok := codec.ByName(a.cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", a.cfg.Codec)
	}
	comp, err := gemstore.ParseCompression(a.cfg.Compression)
	if err != nil {
		return nil, err
	}

	blobs, err := openBackend(ctx, a.cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Backend, err)
	}

	return gemstore.New(blobs,
		gemstore.WithCodec(c),
		gemstore.WithCompression(comp),
		gemstore.WithPrefix(a.cfg.Store.Prefix),
		gemstore.WithResourceController(resource.NewController(a.cfg.Resources)),
		gemstore.WithLogger(a.logger),
		gemstore.WithMetricsCollector(a.metrics),
	), nil
}

// newOrderer loads decks and indexes them.
func (a *app) newOrderer(ctx context.Context, decks []string, opts ...gemgo.Option) (*gemgo.Orderer, *gemstore.Store, []model.Gem, error) {
	st, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	gems, err := st.LoadAll(ctx, decks...)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append([]gemgo.Option{
		gemgo.WithRounds(a.cfg.Rounds),
		gemgo.WithMinimumViable(a.cfg.MinimumViable),
		gemgo.WithLogger(a.logger),
		gemgo.WithMetricsCollector(a.metrics),
	}, opts...)

	o, err := gemgo.New(gems, opts...)
	if err != nil {
		return nil, nil, nil, err
	}
	return o, st, gems, nil
}
