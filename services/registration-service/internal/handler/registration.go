package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/payload"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/usecase"
	"github.com/vasapolrittideah/member-registry/shared/apperror"
)

type RegistrationHandler struct {
	registrationUsecase usecase.RegistrationUsecase
	logger              *zerolog.Logger
}

func NewRegistrationHandler(registrationUsecase usecase.RegistrationUsecase, logger *zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUsecase: registrationUsecase,
		logger:              logger,
	}
}

// Register creates a member.
// POST /v1/registrations
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.registrationUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
		SourceIP:       sourceIP(r),
		SourceSystem:   req.SourceSystem,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, payload.NewProfileResponse(profile))
}

// sourceIP returns the client address. RemoteAddr has already been rewritten
// by the RealIP middleware when a forwarding header is present.
func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
