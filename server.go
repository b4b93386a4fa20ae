package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig holds configuration for the web server
type ServerConfig struct {
	Port    int
	Service *QueryService
}

// StartServer initializes and starts the HTTP server
func StartServer(config ServerConfig) error {
	r := chi.NewRouter()

	// Middleware. The timeout must cover a full agent run, which can make
	// several model calls in sequence.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// Web handler (chat page)
	webHandler := NewWebHandler()
	r.Get("/", webHandler.ChatPage)

	// API handlers (JSON responses)
	apiHandler := &APIHandler{Service: config.Service}
	r.Post("/query", apiHandler.Query)
	r.Get("/healthz", apiHandler.Health)

	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", config.Port)
	log.Printf("Starting server on http://localhost%s", addr)
	return http.ListenAndServe(addr, r)
}
