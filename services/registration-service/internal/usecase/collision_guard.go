package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/repository"
	"github.com/vasapolrittideah/member-registry/shared/apperror"
	"github.com/vasapolrittideah/member-registry/shared/metrics"
)

// CollisionGuard rejects a new profile whose keys are already taken. It only reads.
type CollisionGuard interface {
	Check(ctx context.Context, id, activationCode string) error
}

type collisionGuard struct {
	profileRepo repository.ProfileRepository
	metrics     metrics.Recorder
	logger      *zerolog.Logger
}

func NewCollisionGuard(
	profileRepo repository.ProfileRepository,
	recorder metrics.Recorder,
	logger *zerolog.Logger,
) CollisionGuard {
	return &collisionGuard{
		profileRepo: profileRepo,
		metrics:     recorder,
		logger:      logger,
	}
}

func (g *collisionGuard) Check(ctx context.Context, id, activationCode string) error {
	if id == "" {
		g.logger.Error().Str("activation_code", activationCode).Msg("identity provider did not return an id")
		return apperror.Internal("identity provider did not return an id")
	}

	_, err := g.profileRepo.GetProfileByActivationCode(ctx, activationCode)
	switch {
	case err == nil:
		g.logger.Error().
			Str("id", id).
			Str("activation_code", activationCode).
			Msg("activation code is already used by another profile")
		g.metrics.RecordCollision(metrics.CollisionActivationCode)
		return apperror.Internal("activationCode collision")
	case !errors.Is(err, repository.ErrProfileNotFound):
		g.logger.Error().Err(err).Str("id", id).Msg("failed to look up profile by activation code")
		return apperror.Internal("failed to check activation code")
	}

	_, err = g.profileRepo.GetProfileByID(ctx, id)
	switch {
	case err == nil:
		g.logger.Error().Str("id", id).Msg("profile already exists for identity")
		g.metrics.RecordCollision(metrics.CollisionID)
		return apperror.Internal("id collision")
	case !errors.Is(err, repository.ErrProfileNotFound):
		g.logger.Error().Err(err).Str("id", id).Msg("failed to look up profile by id")
		return apperror.Internal("failed to check profile id")
	}

	return nil
}
