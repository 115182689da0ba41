package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pribylovaa/go-recipe-cache/internal/config"
	"github.com/pribylovaa/go-recipe-cache/internal/gate"
	"github.com/pribylovaa/go-recipe-cache/internal/service"
	"github.com/pribylovaa/go-recipe-cache/internal/spoonacular"
	"github.com/pribylovaa/go-recipe-cache/internal/storage"
	"github.com/pribylovaa/go-recipe-cache/internal/storage/postgres"
	"github.com/pribylovaa/go-recipe-cache/internal/storage/sqlite"
	httptransport "github.com/pribylovaa/go-recipe-cache/internal/transport/http"
	"github.com/pribylovaa/go-recipe-cache/internal/transport/http/handlers"
	"github.com/pribylovaa/go-recipe-cache/pkg/interceptors"
	logctx "github.com/pribylovaa/go-recipe-cache/pkg/log"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	health "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting recipe-service",
		slog.String("env", cfg.Env),
		slog.String("storage", cfg.Storage.Driver),
	)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	rootCtx = logctx.Into(rootCtx, log)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := openStorage(dbCtx, cfg.Storage)
	dbCancel()
	if err != nil {
		log.Error("storage_open_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("storage_opened", slog.String("driver", cfg.Storage.Driver))

	var stamp gate.Stamp = store
	if cfg.Refresh.StampPath != "" {
		stamp = gate.NewFileStamp(cfg.Refresh.StampPath)
	}
	g := gate.New(stamp, cfg.Refresh.TTL)

	provider := spoonacular.New(&http.Client{Timeout: cfg.Provider.Timeout}, spoonacular.Options{
		BaseURL:      cfg.Provider.BaseURL,
		APIKey:       cfg.Provider.APIKey,
		Diet:         cfg.Provider.Diet,
		Intolerances: cfg.Provider.Intolerances,
	})

	reg := prometheus.DefaultRegisterer
	metrics := service.NewMetrics(reg)

	svc := service.New(store, provider, g, *cfg, service.WithMetrics(metrics))
	favorites := service.NewFavorites(store, metrics)
	if err := favorites.Load(rootCtx); err != nil {
		log.Warn("favorites_load_failed", slog.String("err", err.Error()))
	}
	log.Info("service_initialized")

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_ = svc.Run(rootCtx)
	}()

	// Принудительное обновление ждёт провайдера, поэтому запрос не должен
	// обрываться раньше его таймаута.
	httpTimeout := cfg.Timeouts.Service
	if cfg.Provider.Timeout+cfg.Timeouts.Service > httpTimeout {
		httpTimeout = cfg.Provider.Timeout + cfg.Timeouts.Service
	}

	api := httptransport.NewRouter(handlers.New(svc, favorites), httptransport.Options{
		Logger:     log,
		Timeout:    httpTimeout,
		Registerer: reg,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", api)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http_listen_start", slog.String("addr", httpAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}()

	grpc_prometheus.EnableHandlingTimeHistogram()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			interceptors.Recover(log),
			interceptors.Logging(log),
			interceptors.WithTimeout(cfg.Timeouts.Service),
			grpc_prometheus.UnaryServerInterceptor,
		),
		grpc.ChainStreamInterceptor(
			grpc_prometheus.StreamServerInterceptor,
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	if cfg.Env == envLocal || cfg.Env == envDev {
		reflection.Register(grpcServer)
	}

	grpcAddr := cfg.GRPC.Addr()
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Error("grpc_listen_failed",
			slog.String("addr", grpcAddr),
			slog.String("err", err.Error()),
		)
		rootCancel()
		<-runDone
		_ = httpSrv.Shutdown(context.Background())
		_ = store.Close()
		os.Exit(1)
	}
	log.Info("grpc_listen_start", slog.String("addr", grpcAddr))

	grpc_prometheus.Register(grpcServer)

	go func() {
		select {
		case <-svc.Loaded():
			hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
			log.Info("cache_ready")
		case <-rootCtx.Done():
		}
	}()

	serveErrCh := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("grpc_serve_failed", slog.String("err", err.Error()))
		}
	}

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc_stopped")
	case <-shutdownCtx.Done():
		log.Warn("grpc_force_stop")
		grpcServer.Stop()
	}

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}
	shutdownCancel()

	rootCancel()
	<-runDone

	if err := store.Close(); err != nil {
		log.Warn("storage_close_failed", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

// openStorage выбирает реализацию хранилища по storage.driver.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Driver == config.DriverPostgres {
		st, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return st, nil
	}

	st, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
