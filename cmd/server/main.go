// Command server runs the whitelist registration portal: an HTTP form that
// gatekeeps admission to the game server's whitelist behind a shared
// verification code and an email-domain policy.
//
// main wires the dependencies and keeps the lifecycle small. Business logic
// lives in the internal packages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/Traveler1145141/TRWhitelist/internal/admin"
	"github.com/Traveler1145141/TRWhitelist/internal/platform/config"
	"github.com/Traveler1145141/TRWhitelist/internal/platform/httpserver"
	"github.com/Traveler1145141/TRWhitelist/internal/platform/logger"
	"github.com/Traveler1145141/TRWhitelist/internal/platform/metrics"
	redisclient "github.com/Traveler1145141/TRWhitelist/internal/platform/redis"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/handler"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/policy"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/service"
	"github.com/Traveler1145141/TRWhitelist/internal/registration/store"
	"github.com/Traveler1145141/TRWhitelist/internal/web"
	"github.com/Traveler1145141/TRWhitelist/internal/whitelist"
	"github.com/Traveler1145141/TRWhitelist/internal/whitelist/gateway"
	adminmw "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/admin"
	"github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/metadata"
	"github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/recoverer"
	request "github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/request"
	"github.com/Traveler1145141/TRWhitelist/pkg/platform/middleware/requesttime"
)

// admissionQueueSize bounds the gateway inbox; tasks beyond it are dropped.
const admissionQueueSize = 256

func main() {
	configPath := flag.String("config", "config.yml", "path to the configuration file")
	whitelistPath := flag.String("whitelist", "", "path to the server's whitelist.json (default <data-dir>/whitelist.json)")
	flag.Parse()

	bootLog := logger.New("info")
	manager, err := config.NewManager(*configPath, bootLog)
	if err != nil {
		bootLog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	cfg := manager.Current()
	log := logger.New(cfg.LogLevel)

	if err := web.EnsureIndexFile(cfg.DataDir); err != nil {
		log.Warn("could not write default index.html", "error", err)
	}

	m := metrics.New()

	registered, err := newAllowListStore(cfg, log)
	if err != nil {
		log.Error("could not set up allow-list store", "error", err)
		os.Exit(1)
	}
	if err := registered.Load(context.Background()); err != nil {
		// Dedup continues from an empty set; availability over durability.
		log.Error("could not load registered emails", "error", err)
	}

	if *whitelistPath == "" {
		*whitelistPath = filepath.Join(cfg.DataDir, "whitelist.json")
	}
	registry, err := whitelist.OpenFile(*whitelistPath)
	if err != nil {
		log.Error("could not open whitelist file", "path", *whitelistPath, "error", err)
		os.Exit(1)
	}

	gw := gateway.New(admissionQueueSize, log, m)
	worker := gateway.NewWorker(registry, gw.Inbox(), log, m, func() map[string]string {
		return manager.Current().Messages
	})

	svc := service.New(manager, policy.New(registered), registered, gw, log, m)

	restart := make(chan struct{}, 1)
	portalHandler := handler.New(svc, manager, log, m)
	adminHandler := admin.New(manager, registered, restart, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		return serve(ctx, manager, log, restart, func() http.Handler {
			return newRouter(manager, log, portalHandler, adminHandler)
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exiting", "error", err)
		os.Exit(1)
	}

	if err := registered.Persist(context.Background()); err != nil {
		log.Error("could not persist registered emails on shutdown", "error", err)
	}
	log.Info("shutdown complete")
}

// newAllowListStore selects the dedup store backend from configuration.
func newAllowListStore(cfg *config.Config, log *slog.Logger) (store.AllowList, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		client, err := redisclient.New(cfg.Storage)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, fmt.Errorf("storage backend %q requires storage.redis-url", cfg.Storage.Backend)
		}
		return store.NewRedis(client.Client), nil
	case config.BackendMemory:
		return store.NewInMemory(), nil
	case config.BackendYAML, "":
		return store.NewFile(filepath.Join(cfg.DataDir, "emails.yml"), log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newRouter assembles the middleware chain and mounts all endpoints. The
// admin guard reads the token from the live config snapshot, so a reload that
// changed only the token needs no listener rebind.
func newRouter(manager *config.Manager, log *slog.Logger, portal *handler.Handler, adm *admin.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(recoverer.Middleware(log))

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(func() string { return manager.Current().Admin.Token }, log))
		adm.Register(r)
	})

	portal.Register(r)
	return r
}

// serve owns the HTTP listener. It rebinds when the restart channel fires
// (port change via admin reload) and shuts down cleanly on ctx cancellation.
// A bind failure is fatal: it is the one error class not locally recovered.
func serve(ctx context.Context, manager *config.Manager, log *slog.Logger, restart <-chan struct{}, build func() http.Handler) error {
	for {
		cfg := manager.Current()
		addr := fmt.Sprintf(":%d", cfg.Port)
		srv := httpserver.New(addr, build())

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		log.Info("web server started", "addr", addr)

		select {
		case <-ctx.Done():
			shutdown(srv, log)
			return ctx.Err()
		case <-restart:
			log.Info("restarting web server")
			shutdown(srv, log)
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("web server: %w", err)
			}
			return nil
		}
	}
}

func shutdown(srv *http.Server, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	} else {
		log.Info("web server stopped")
	}
}
