package main

import (
	"net/http"

	"github.com/Dias221467/SocialGraph/internal/config"
	"github.com/Dias221467/SocialGraph/internal/handlers"
	"github.com/Dias221467/SocialGraph/internal/services"
	"github.com/Dias221467/SocialGraph/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// newRouter builds the HTTP surface: health, metrics, the WebSocket
// transport and the admin views.
func newRouter(cfg *config.Config, graph *services.SocialGraph, dispatcher *handlers.Dispatcher) http.Handler {
	adminHandler := handlers.NewAdminHandler(graph)
	wsHandler := handlers.NewWSHandler(dispatcher, int64(cfg.MaxMessageBytes), cfg.RateLimitRPS, cfg.RateLimitBurst)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", adminHandler.HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/ws", wsHandler.ServeWS)

	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/network", adminHandler.GetNetworkHandler).Methods("GET")
	adminRoutes.HandleFunc("/statistics", adminHandler.GetStatisticsHandler).Methods("GET")

	router.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(router)
}
