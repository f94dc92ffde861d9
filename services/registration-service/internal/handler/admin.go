package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/payload"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/usecase"
	"github.com/vasapolrittideah/member-registry/shared/apperror"
	"github.com/vasapolrittideah/member-registry/shared/interceptor"
)

type AdminHandler struct {
	reconcileUsecase usecase.ReconcileUsecase
	logger           *zerolog.Logger
}

func NewAdminHandler(reconcileUsecase usecase.ReconcileUsecase, logger *zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		reconcileUsecase: reconcileUsecase,
		logger:           logger,
	}
}

// RunReconciliation reports identities without a profile.
// POST /admin/reconciliations
func (h *AdminHandler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	claims, ok := interceptor.AdminClaimsFromContext(r.Context())
	if !ok {
		apperror.Write(w, http.StatusUnauthorized, "missing admin claims")
		return
	}

	h.logger.Info().Str("admin", claims.Subject).Msg("reconciliation requested")

	report, err := h.reconcileUsecase.Run(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to run reconciliation")
		apperror.Write(w, http.StatusInternalServerError, "reconciliation failed")
		return
	}

	orphans := make([]payload.OrphanResponse, 0, len(report.Orphans))
	for _, o := range report.Orphans {
		orphans = append(orphans, payload.OrphanResponse{
			Username:  o.Username,
			Subject:   o.Subject,
			Email:     o.Email,
			CreatedAt: o.CreatedAt,
			Deleted:   o.Deleted,
		})
	}

	writeJSON(w, http.StatusOK, payload.ReconcileResponse{
		Scanned: report.Scanned,
		Deleted: report.Deleted,
		Orphans: orphans,
	})
}
