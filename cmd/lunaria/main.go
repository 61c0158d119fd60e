package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/lunaria-app/lunaria/internal/adapter/fsm"
	"github.com/lunaria-app/lunaria/internal/adapter/otel"
	"github.com/lunaria-app/lunaria/internal/adapter/river"
	"github.com/lunaria-app/lunaria/internal/adapter/sqlite"
	"github.com/lunaria-app/lunaria/internal/app"

	handler "github.com/lunaria-app/lunaria/internal/adapter/http"
)

func main() {
	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "lunaria.db")
	baseDomain := envOrDefault("BASE_DOMAIN", "example.com")
	reserved := splitList(envOrDefault("RESERVED_SUBDOMAINS", strings.Join(app.DefaultReservedSubdomains(), ",")))

	ctx := context.Background()

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		log.Fatalf("otel: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		log.Fatalf("migrations: %v", err)
	}
	defer repo.Close()

	riverClient, err := river.Setup(ctx, db)
	if err != nil {
		log.Fatalf("river: %v", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		log.Fatalf("river start: %v", err)
	}

	tracedRepo := otel.NewTracingRepository(repo)
	publisher := otel.NewTracingPublisher(river.NewPublisher(riverClient))
	auth := handler.NewStaticAuthenticator(handler.ParseTokenTable(os.Getenv("AUTH_TOKENS")))

	// --- Application ---
	svc := app.NewSiteService(tracedRepo, publisher, fsm.New())
	resolver := app.NewResolver(tracedRepo, baseDomain, reserved)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware("lunaria", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("lunaria", "0.1.0"))
	handler.NewHandler(svc, auth, baseDomain).Register(api)

	// The public site is served per-subdomain at the root path; the
	// host header picks the tenant.
	router.Method(http.MethodGet, "/", handler.NewPublicHandler(resolver, auth))

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("lunaria listening on :%s (base domain %s)", port, baseDomain)
		log.Printf("API docs: http://localhost:%s/docs", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-done
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := riverClient.Stop(shutdownCtx); err != nil {
		log.Printf("river stop: %v", err)
	}

	log.Println("stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
