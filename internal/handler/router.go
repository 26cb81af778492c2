package handler

import (
	"net/http"

	"github.com/Dan9191/cfo-dashboard/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter wires every route. Auth and model-backed routes share the limiter.
func NewRouter(h *Handler, auth middleware.Authenticator, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(h.log))
	limit := middleware.RateLimit(limiter)

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	public := r.PathPrefix("/api/auth").Subrouter()
	public.Use(limit)
	public.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	public.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(auth, h.log))
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/cash-flow/forecast", h.CashFlowForecast).Methods(http.MethodGet)
	api.HandleFunc("/profitability/forecast", h.ProfitabilityForecast).Methods(http.MethodGet)
	api.HandleFunc("/financial-data", h.UpdateFinancialData).Methods(http.MethodPost)
	api.HandleFunc("/integrations", h.Integrations).Methods(http.MethodGet)
	api.HandleFunc("/integrations/{platform}", h.UpdateIntegration).Methods(http.MethodPost)

	// Routes backed by the insight provider
	api.Handle("/tax-planning/optimize", limit(http.HandlerFunc(h.OptimizeTax))).Methods(http.MethodPost)
	api.Handle("/news", limit(http.HandlerFunc(h.News))).Methods(http.MethodGet)
	api.Handle("/insights", limit(http.HandlerFunc(h.Insights))).Methods(http.MethodGet)

	return r
}
