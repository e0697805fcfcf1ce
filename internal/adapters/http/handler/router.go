package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/ogurasousui/shift-scheduler/internal/core/health"
	"github.com/ogurasousui/shift-scheduler/internal/core/shift"
)

// Dependencies はルーター構築に必要なユースケースと設定です。
type Dependencies struct {
	Shifts      shift.UseCase
	Health      health.Checker
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter は API 全体の http.Handler を構築します。
func NewRouter(deps Dependencies) (http.Handler, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shifts, err := NewShiftHandler(deps.Shifts, logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(deps.CORSOrigins))
	r.Use(forwardCredential)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, logger, http.StatusNotFound, codeNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, logger, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", healthz(deps.Health, logger))
	r.Route("/shift", shifts.Routes)

	return r, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthz(checker health.Checker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
				writeJSON(w, r, logger, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		writeJSON(w, r, logger, http.StatusOK, healthResponse{Status: "ok"})
	}
}
