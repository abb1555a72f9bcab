// cmd/shelfsd/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"shelfs/internal/auth"
	"shelfs/internal/catalog"
	"shelfs/internal/circulation"
	"shelfs/internal/config"
	"shelfs/internal/snapshot"
	"shelfs/internal/users"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	tracerShutdown := setupTracing(ctx, cfg, logger)
	defer tracerShutdown()

	// Stores are owned exclusively by their services; the snapshot layer
	// reads and rehydrates them directly.
	userStore := users.NewStore()
	catalogStore := catalog.NewStore()
	loanStore := circulation.NewStore()

	userSvc := users.NewService(userStore, logger)
	catalogSvc := catalog.NewService(catalogStore, logger)
	circulationSvc := circulation.NewService(loanStore, userSvc, catalogSvc, cfg.MaxActiveLoans, cfg.LoanPeriod, logger)

	session := auth.NewSession(userSvc, auth.NewPermissionRegistry(), logger)

	persistence := snapshot.NewPersistence(cfg.DataDir, logger)
	if persistence.Exists() {
		if err := persistence.Load(userStore, catalogStore, loanStore); err != nil {
			logger.Fatal("failed to load snapshot", zap.Error(err))
		}
	} else {
		seedDefaults(ctx, cfg, userSvc, logger)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	auth.NewHandler(session).Mount(r)
	users.NewHandler(userSvc).Mount(r)
	catalog.NewHandler(catalogSvc).Mount(r)
	circulation.NewHandler(circulationSvc).Mount(r)

	server := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		logger.Info("shelfs listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	// Persist the full state on the way out so the next start rehydrates it.
	if err := persistence.Save(userStore, catalogStore, loanStore); err != nil {
		logger.Error("failed to save snapshot", zap.Error(err))
	}

	logger.Info("goodbye")
}

// setupTracing installs an OTLP HTTP exporter when an endpoint is
// configured. Without one the default no-op tracer stays in place.
func setupTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient())
	if err != nil {
		logger.Warn("failed to create trace exporter", zap.Error(err))
		return func() {}
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("trace provider shutdown", zap.Error(err))
		}
	}
}

// seedDefaults registers the default administrator and a handful of sample
// members on a fresh start, before any snapshot exists. Everything goes
// through the normal register path.
func seedDefaults(ctx context.Context, cfg *config.Config, userSvc users.Service, logger *zap.Logger) {
	if _, err := userSvc.Register(ctx, cfg.SeedAdminUsername, cfg.SeedAdminEmail, cfg.SeedAdminPassword, users.RoleAdministrator); err != nil {
		logger.Fatal("failed to seed administrator", zap.Error(err))
	}

	samples := []struct{ username, email string }{
		{"john", "john@example.com"},
		{"anna", "anna@example.com"},
		{"scarlet", "scarlet@example.com"},
		{"nathan", "nathan@example.com"},
		{"magnus", "magnus@example.com"},
	}
	for _, m := range samples {
		if _, err := userSvc.Register(ctx, m.username, m.email, "password123", users.RoleMember); err != nil {
			logger.Warn("failed to seed member", zap.String("username", m.username), zap.Error(err))
		}
	}

	logger.Info("seeded default accounts", zap.Int("members", len(samples)))
}
