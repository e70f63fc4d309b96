// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/overflow-online/overflow-server/internal/cache"
	"github.com/overflow-online/overflow-server/internal/catalog"
	"github.com/overflow-online/overflow-server/internal/database"
	"github.com/overflow-online/overflow-server/internal/game"
	"github.com/overflow-online/overflow-server/internal/handlers"
	"github.com/overflow-online/overflow-server/internal/middleware"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	rdb, err := cache.ConnectRedis()
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}

	cat := catalog.New(newCatalogLoader(logger))
	if _, err := cat.All(context.Background()); err != nil {
		logger.Fatalf("card catalog: %v", err)
	}

	coord := game.NewCoordinator(rdb, cat, logger)
	srv := handlers.NewGameServer(coord, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "Welcome to Overflow: Online!")
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	})

	// game websocket
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, srv),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// newCatalogLoader picks the catalog backend: postgres when PG_HOST is set
// and CATALOG_SOURCE is not "static", otherwise the built-in deck.
func newCatalogLoader(logger *logrus.Logger) catalog.Loader {
	if os.Getenv("CATALOG_SOURCE") == "static" || os.Getenv("PG_HOST") == "" {
		logger.Info("Using built-in static card catalog")
		return catalog.StaticLoader{}
	}
	pool, err := database.Connect(context.Background(),
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("PG_HOST"),
		os.Getenv("PG_PORT"),
		os.Getenv("PG_DATABASE"),
	)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	return &catalog.PostgresLoader{Pool: pool}
}
