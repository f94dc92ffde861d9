package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/usecase"
	"github.com/vasapolrittideah/member-registry/shared/auth"
	"github.com/vasapolrittideah/member-registry/shared/interceptor"
	"github.com/vasapolrittideah/member-registry/shared/logger"
)

// RouterDeps holds everything NewRouter wires into routes.
type RouterDeps struct {
	RegistrationUsecase usecase.RegistrationUsecase
	ReconcileUsecase    usecase.ReconcileUsecase

	JWTAuth     auth.JWTAuthenticator
	AdminSecret string

	MetricsHandler http.Handler
	Logger         *zerolog.Logger
}

func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	registrationHandler := NewRegistrationHandler(deps.RegistrationUsecase, deps.Logger)
	adminHandler := NewAdminHandler(deps.ReconcileUsecase, deps.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/registrations", registrationHandler.Register)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(interceptor.NewJWTMiddleware(deps.JWTAuth, deps.AdminSecret, deps.Logger))
		r.Post("/reconciliations", adminHandler.RunReconciliation)
	})

	return r
}
