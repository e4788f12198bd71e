package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"part-sourcing-service/internal/adapters/cache"
	"part-sourcing-service/internal/adapters/repositories"
	"part-sourcing-service/internal/adapters/similarity"
	"part-sourcing-service/internal/api"
	"part-sourcing-service/internal/config"
	"part-sourcing-service/internal/platform/db"
	"part-sourcing-service/internal/platform/obs"
	"part-sourcing-service/internal/ports"
	"part-sourcing-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if err := obs.Init(config.Get("LOG_MODE", "prod") == "dev"); err != nil {
		log.Fatal(err)
	}
	defer obs.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	port := config.Get("PORT", "8080")

	pg, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pg.Close()

	offers := repositories.NewPostgresOfferRepository(pg)

	// The family registry is read-only reference data; serve it through a
	// Redis read-through cache when an address is configured.
	var registry ports.PartRegistry = repositories.NewPostgresPartRegistry(pg)
	if addr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(addr) != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ttl, err := time.ParseDuration(config.Get("REGISTRY_CACHE_TTL", "5m"))
		if err != nil {
			log.Fatalf("invalid REGISTRY_CACHE_TTL: %v", err)
		}
		registry = cache.NewRedisRegistryCache(registry, client, ttl)
	}

	finder := similarity.NewSelector(registry)

	planner := &services.Planner{
		Offers:   offers,
		Registry: registry,
		Finder:   finder,
	}

	router := api.NewRouter(planner, offers, registry, finder)

	// Write timeout covers worst-case LP solves over large offer sets.
	obs.L().Infow("server listening", "addr", ":"+port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
