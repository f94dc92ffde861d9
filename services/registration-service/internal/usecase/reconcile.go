package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/config"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/repository"
	"github.com/vasapolrittideah/member-registry/shared/metrics"
	"github.com/vasapolrittideah/member-registry/shared/provider"
)

// IdentityDirectory lists and removes identity provider accounts.
type IdentityDirectory interface {
	ListIdentities(ctx context.Context, fn func(*provider.Identity) error) error
	DeleteIdentity(ctx context.Context, username string) error
}

// ReconcileUsecase finds identities that were created but never linked to a profile.
type ReconcileUsecase interface {
	Run(ctx context.Context) (*ReconcileReport, error)
}

// Orphan is an identity without a profile.
type Orphan struct {
	Username  string    `json:"username"`
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Deleted   bool      `json:"deleted"`
}

// ReconcileReport summarizes one reconciliation run.
type ReconcileReport struct {
	Scanned int      `json:"scanned"`
	Orphans []Orphan `json:"orphans"`
	Deleted int      `json:"deleted"`
}

type reconcileUsecase struct {
	directory    IdentityDirectory
	profileRepo  repository.ProfileRepository
	metrics      metrics.Recorder
	reconcileCfg *config.ReconcileConfig
	logger       *zerolog.Logger

	now func() time.Time
}

func NewReconcileUsecase(
	directory IdentityDirectory,
	profileRepo repository.ProfileRepository,
	recorder metrics.Recorder,
	reconcileCfg *config.ReconcileConfig,
	logger *zerolog.Logger,
) ReconcileUsecase {
	return &reconcileUsecase{
		directory:    directory,
		profileRepo:  profileRepo,
		metrics:      recorder,
		reconcileCfg: reconcileCfg,
		logger:       logger,
		now:          time.Now,
	}
}

// Run walks every identity. Identities younger than the grace period are
// skipped since their registration may still be in flight.
func (u *reconcileUsecase) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{Orphans: []Orphan{}}
	cutoff := u.now().Add(-u.reconcileCfg.GracePeriod)

	err := u.directory.ListIdentities(ctx, func(identity *provider.Identity) error {
		report.Scanned++

		if identity.CreatedAt.After(cutoff) {
			return nil
		}

		orphan, err := u.checkIdentity(ctx, identity)
		if err != nil || orphan == nil {
			return err
		}

		report.Orphans = append(report.Orphans, *orphan)
		if orphan.Deleted {
			report.Deleted++
		}
		return nil
	})

	u.metrics.RecordReconciliation(report.Scanned, len(report.Orphans), report.Deleted)

	if err != nil {
		u.logger.Error().Err(err).Int("scanned", report.Scanned).Msg("reconciliation aborted")
		return report, err
	}

	u.logger.Info().
		Int("scanned", report.Scanned).
		Int("orphans", len(report.Orphans)).
		Int("deleted", report.Deleted).
		Msg("reconciliation finished")

	return report, nil
}

func (u *reconcileUsecase) checkIdentity(ctx context.Context, identity *provider.Identity) (*Orphan, error) {
	sub := identity.Subject()
	if sub != "" {
		_, err := u.profileRepo.GetProfileByID(ctx, sub)
		if err == nil {
			return nil, nil
		}
		if !errors.Is(err, repository.ErrProfileNotFound) {
			return nil, err
		}
	}

	email, _ := identity.Attribute("email")
	orphan := &Orphan{
		Username:  identity.Username,
		Subject:   sub,
		Email:     email,
		CreatedAt: identity.CreatedAt,
	}

	u.logger.Warn().Object("identity", identity).Msg("identity has no profile")

	if !u.reconcileCfg.DeleteOrphans {
		return orphan, nil
	}

	if err := u.directory.DeleteIdentity(ctx, identity.Username); err != nil {
		u.logger.Error().Err(err).Str("username", identity.Username).Msg("failed to delete orphan identity")
		return orphan, nil
	}

	orphan.Deleted = true
	return orphan, nil
}

// StartReconcileLoop runs reconciliation every interval until ctx is done.
// A non-positive interval disables the loop.
func StartReconcileLoop(ctx context.Context, uc ReconcileUsecase, interval time.Duration, logger *zerolog.Logger) {
	if interval <= 0 {
		logger.Info().Msg("periodic reconciliation disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn().Err(err).Msg("periodic reconciliation failed")
			}
		}
	}
}
