package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"MiniShop/internal/cart"
	"MiniShop/internal/catalog"
	"MiniShop/internal/customer"
	"MiniShop/internal/shop"
	"MiniShop/pkg/kit"
)

const service = "shop-api"

func main() {
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")

	catalogStore, closeDB := newCatalogStore(log)
	defer closeDB()

	customers := customer.NewMemStore()
	carts := cart.NewMemStore(customers, catalogStore)

	app := &shop.App{
		Catalog: &catalog.Server{Store: catalogStore, Log: log},
		Customers: &customer.Server{
			Registry: customers,
			Log:      log,
			Limiter:  newCustomerLimiter(),
		},
		Carts: &cart.Server{Store: carts, Log: log},
	}

	reg := prometheus.NewRegistry()
	h := shop.NewHandler(app, shop.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: true,
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	h, stopTracing := wrapTracing(h, log)
	defer stopTracing()

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// newCatalogStore picks the Postgres-backed catalog when DATABASE_URL is
// set, otherwise the built-in seed. Customers and carts are in-memory
// either way.
func newCatalogStore(log *zap.Logger) (catalog.Store, func()) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return catalog.NewMemStore(catalog.SeedProducts()), func() {}
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	log.Info("catalog backed by postgres")
	return catalog.NewPostgresStore(db), func() { _ = db.Close() }
}

func newCustomerLimiter() *kit.IPRateLimiter {
	limit, err := strconv.Atoi(getenv("CUSTOMER_RATE_LIMIT", "0"))
	if err != nil || limit <= 0 {
		return nil
	}
	return kit.NewIPRateLimiter(limit, time.Minute)
}

// wrapTracing layers OTLP span export around the whole handler when an
// exporter endpoint is configured. The returned func flushes pending spans.
func wrapTracing(h http.Handler, log *zap.Logger) (http.Handler, func()) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return h, func() {}
	}

	tp, err := kit.NewTracerProvider(context.Background(), service, endpoint)
	if err != nil {
		log.Fatal("init tracer provider failed", zap.Error(err))
	}
	log.Info("tracing enabled", zap.String("endpoint", endpoint))

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer provider shutdown failed", zap.Error(err))
		}
	}

	wrapped := otelhttp.NewHandler(h, service,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return wrapped, stop
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
