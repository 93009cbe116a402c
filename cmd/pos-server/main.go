package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/grillmate/pos/internal/infra/httpx"
	"github.com/grillmate/pos/internal/infra/kv"
	redikv "github.com/grillmate/pos/internal/infra/kv/redis"
	"github.com/grillmate/pos/internal/pkg/telemetry"
	"github.com/grillmate/pos/internal/pos/checkout"
	"github.com/grillmate/pos/internal/pos/checkout/checkoutlog"
	sqlitelog "github.com/grillmate/pos/internal/pos/checkout/checkoutlog/sqlite"
	"github.com/grillmate/pos/internal/pos/core/ports"
	"github.com/grillmate/pos/internal/pos/store"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	telemetry.InitLogger()
	ctx := context.Background()

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.SetupTracer(ctx, "pos-server")
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	backend := openBackend(ctx)

	var auditLog checkoutlog.Repository
	if path := getEnv("POS_CHECKOUT_LOG", "./data/checkout.db"); path != "off" {
		repo, err := sqlitelog.Open(path)
		if err != nil {
			slog.Error("failed to open checkout log", "path", path, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		auditLog = repo
	}

	cart, err := store.NewCartStore(ctx, backend)
	if err != nil {
		fatal("load cart", err)
	}
	orders, err := store.NewOrderStore(ctx, backend)
	if err != nil {
		fatal("load orders", err)
	}
	customers, err := store.NewCustomerStore(ctx, backend, orders)
	if err != nil {
		fatal("load customers", err)
	}
	menu, err := store.NewMenuStore(ctx, backend)
	if err != nil {
		fatal("load menu", err)
	}

	checkoutSvc := checkout.NewService(cart, orders, customers, auditLog)

	handler := httpx.NewHandler(cart, orders, customers, menu, checkoutSvc)
	router := httpx.NewRouter(handler)

	addr := getEnv("POS_ADDR", ":8080")
	slog.Info("pos-server listening", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// openBackend picks the KV backend: Redis when POS_REDIS_ADDR is set,
// otherwise a local JSON file.
func openBackend(ctx context.Context) ports.KV {
	if addr := os.Getenv("POS_REDIS_ADDR"); addr != "" {
		backend := redikv.New(addr, getEnv("POS_REDIS_NAMESPACE", "pos"))
		if err := backend.Ping(ctx); err != nil {
			fatal("connect to redis", err)
		}
		slog.Info("using redis backend", "addr", addr)
		return backend
	}

	path := getEnv("POS_DATA_FILE", "./data/pos.json")
	backend, err := kv.OpenFile(path)
	if err != nil {
		fatal("open data file", err)
	}
	slog.Info("using file backend", "path", path)
	return backend
}

func fatal(action string, err error) {
	slog.Error("startup failed", "action", action, "error", err)
	os.Exit(1)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
