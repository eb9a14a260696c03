package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"
)

// routes wires middlewares and endpoints. Adjust CORS for your frontend hosts.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000", "https://*.run.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metricsMiddleware)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", a.handleRegister)
		api.Post("/auth/login", a.handleLogin)

		// Exploratory endpoints: analyze any drawn region without an account.
		api.Post("/analysis", a.handleAnalyze)
		api.Post("/analysis/compare", a.handleComparePeriods)
		api.Post("/terroir", a.handleTerroir)
		api.Post("/dashboard", a.handleDashboard)
		api.Get("/ai_status", a.handleAIStatus)

		api.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me", a.handleMe)

			pr.Route("/aois", func(ar chi.Router) {
				ar.Get("/", a.handleListAOIs)
				ar.Post("/", a.handleCreateAOI)
				ar.Get("/{id}", a.handleGetAOI)
				ar.Put("/{id}", a.handleUpdateAOI)
				ar.Delete("/{id}", a.handleDeleteAOI)
				ar.Post("/{id}/analysis", a.handleAOIAnalysis)
				ar.Get("/{id}/reports", a.handleListReports)
			})
		})
	})

	return r
}
