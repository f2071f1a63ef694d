package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"AdvocateDirectory/internal/domain"
	"AdvocateDirectory/internal/ports"
)

const defaultQueryTimeout = 10 * time.Second

// Handler serves the advocate listing, health check and directory page.
type Handler struct {
	Repo         ports.AdvocateRepository
	QueryTimeout time.Duration
	Log          *zap.Logger
}

// NewHandler constructs a Handler around the repository.
func NewHandler(repo ports.AdvocateRepository, queryTimeout time.Duration, logger *zap.Logger) *Handler {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Repo:         repo,
		QueryTimeout: queryTimeout,
		Log:          logger,
	}
}

type listResponse struct {
	Data []domain.Advocate `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ListAdvocates handles GET /api/advocates.
//
// On success: 200 and
//
//	{ "data": [ { "id": 1, "firstName": "John", ... } ] }
//
// On store failure: 500 and
//
//	{ "error": "failed to load advocates" }
func (h *Handler) ListAdvocates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.QueryTimeout)
	defer cancel()

	advocates, err := h.Repo.ListAdvocates(ctx)
	if err != nil {
		h.Log.Error("list advocates failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load advocates"})
		return
	}
	if advocates == nil {
		advocates = []domain.Advocate{}
	}
	for i := range advocates {
		if advocates[i].Specialties == nil {
			advocates[i].Specialties = []string{}
		}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: advocates})
}

// Health handles GET /health.
//
// On success: 200 and { "status":"ok", "database":"connected" }.
// On store failure: 503 and { "status":"error", "database":"disconnected", ... }.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.Repo.Ping(ctx); err != nil {
		h.Log.Error("health-check: store ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "error",
			Database: "disconnected",
			Message:  "Database unavailable",
			Error:    err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "connected"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
