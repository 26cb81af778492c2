package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/finance"
	"github.com/Dan9191/cfo-dashboard/internal/middleware"
	"github.com/Dan9191/cfo-dashboard/internal/models"
	"github.com/Dan9191/cfo-dashboard/internal/repository"
	"github.com/Dan9191/cfo-dashboard/internal/service"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc        *service.Service
	log        *logrus.Logger
	sessionTTL time.Duration
}

func NewHandler(svc *service.Service, log *logrus.Logger, sessionTTL time.Duration) *Handler {
	return &Handler{svc: svc, log: log, sessionTTL: sessionTTL}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

// Login handles user authentication and sets the session cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		MaxAge:   int(h.sessionTTL.Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Logout revokes the current session and clears the cookie
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), middleware.Token(r)); err != nil {
		h.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logout successful"})
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Me(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Health reports whether storage is reachable
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		h.log.Errorf("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard returns the dashboard aggregate
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.svc.Dashboard(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// CashFlowForecast returns the twelve-month projection
func (h *Handler) CashFlowForecast(w http.ResponseWriter, r *http.Request) {
	trends, err := trendsFromQuery(r, "riskFactor", 8, 0.05)
	if err != nil {
		h.writeError(w, err)
		return
	}
	points, err := h.svc.CashFlowForecast(r.Context(), userID(r), trends)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forecast": points})
}

// ProfitabilityForecast returns the six-quarter projection
func (h *Handler) ProfitabilityForecast(w http.ResponseWriter, r *http.Request) {
	trends, err := trendsFromQuery(r, "competitionFactor", 15, 0.03)
	if err != nil {
		h.writeError(w, err)
		return
	}
	points, err := h.svc.ProfitabilityForecast(r.Context(), userID(r), trends)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forecast": points})
}

// OptimizeTax runs and stores a tax optimisation
func (h *Handler) OptimizeTax(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.OptimizeTax(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// News returns freshly ranked industry articles
func (h *Handler) News(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.News(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

// Insights returns freshly generated insights
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.svc.Insights(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

// UpdateFinancialData stores a new snapshot
func (h *Handler) UpdateFinancialData(w http.ResponseWriter, r *http.Request) {
	var in models.FinancialSnapshotInput
	if !h.decode(w, r, &in) {
		return
	}
	snap, err := h.svc.UpsertFinancialData(r.Context(), userID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Integrations lists platform connections
func (h *Handler) Integrations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Integrations(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"integrations": rows})
}

// UpdateIntegration changes one platform's status
func (h *Handler) UpdateIntegration(w http.ResponseWriter, r *http.Request) {
	var up service.IntegrationUpdate
	if !h.decode(w, r, &up) {
		return
	}
	row, err := h.svc.UpdateIntegration(r.Context(), userID(r), mux.Vars(r)["platform"], up)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func userID(r *http.Request) string {
	id, _ := middleware.UserID(r.Context())
	return id
}

func trendsFromQuery(r *http.Request, riskParam string, growthDefault, riskDefault float64) (models.MarketTrendAssumptions, error) {
	growth, err := floatParam(r, "growthRate", growthDefault)
	if err != nil {
		return models.MarketTrendAssumptions{}, err
	}
	risk, err := floatParam(r, riskParam, riskDefault)
	if err != nil {
		return models.MarketTrendAssumptions{}, err
	}
	return models.MarketTrendAssumptions{GrowthRatePercent: growth, RiskFactorPercent: risk}, nil
}

func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest{name + " must be a number"}
	}
	return v, nil
}

type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Bad Request", Message: "Invalid JSON body"})
		return false
	}
	return true
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br),
		errors.Is(err, finance.ErrInvalidInput),
		errors.Is(err, tax.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Bad Request", Message: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized", Message: "Invalid credentials or session"})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not Found", Message: err.Error()})
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody{Error: "Conflict", Message: "A user with this username already exists"})
	default:
		h.log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal Server Error", Message: "Something went wrong"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
