package api

import (
	"net/http"

	"part-sourcing-service/internal/api/handlers"
	"part-sourcing-service/internal/ports"
	"part-sourcing-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.Planner, offers ports.OfferRepository, registry ports.PartRegistry, finder ports.AlternativeFinder) http.Handler {
	mux := http.NewServeMux()

	offersHandler := &handlers.OffersHandler{
		Repo:     offers,
		Registry: registry,
		Finder:   finder,
	}
	optimizeHandler := &handlers.OptimizeHandler{Planner: planner}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/offers", offersHandler.List)
	mux.HandleFunc("/alternatives", offersHandler.Alternatives)
	mux.HandleFunc("/optimize", optimizeHandler.Batch)
	mux.HandleFunc("/optimize/line", optimizeHandler.Line)

	return requestIDMiddleware(loggingMiddleware(mux))
}
