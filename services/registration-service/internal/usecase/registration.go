package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/config"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/model"
	"github.com/vasapolrittideah/member-registry/services/registration-service/internal/repository"
	"github.com/vasapolrittideah/member-registry/shared/apperror"
	"github.com/vasapolrittideah/member-registry/shared/metrics"
	"github.com/vasapolrittideah/member-registry/shared/provider"
	"github.com/vasapolrittideah/member-registry/shared/utilities"
	"github.com/vasapolrittideah/member-registry/shared/validation"
)

// IdentityProvider provisions accounts in the external identity provider.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, name string) (*provider.Identity, error)
	SetCredential(ctx context.Context, email, password string) error
	AssignToGroups(ctx context.Context, email string, groups []string) error
}

// StructValidator validates tagged structs.
type StructValidator interface {
	Struct(s any) error
}

// RegistrationUsecase defines the member registration use case.
type RegistrationUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.Profile, error)
}

// RegisterParams defines the parameters for member registration.
type RegisterParams struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password" validate:"eqfield=Password"`
	SourceIP       string `json:"source_ip"`
	SourceSystem   string `json:"source_system"`
}

// MarshalZerologObject logs the parameters with both passwords redacted.
func (p RegisterParams) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", p.Name).
		Str("email", p.Email).
		Str("password", redacted).
		Str("repeat_password", redacted).
		Str("source_ip", p.SourceIP).
		Str("source_system", p.SourceSystem)
}

const redacted = "[REDACTED]"

type registrationUsecase struct {
	identityProvider IdentityProvider
	profileRepo      repository.ProfileRepository
	guard            CollisionGuard
	validator        StructValidator
	metrics          metrics.Recorder
	registrationCfg  *config.RegistrationConfig
	notifiers        []RegistrationNotifier
	logger           *zerolog.Logger

	now               func() time.Time
	newActivationCode func() string
}

func NewRegistrationUsecase(
	identityProvider IdentityProvider,
	profileRepo repository.ProfileRepository,
	guard CollisionGuard,
	validator StructValidator,
	recorder metrics.Recorder,
	registrationCfg *config.RegistrationConfig,
	logger *zerolog.Logger,
	notifiers ...RegistrationNotifier,
) RegistrationUsecase {
	return &registrationUsecase{
		identityProvider:  identityProvider,
		profileRepo:       profileRepo,
		guard:             guard,
		validator:         validator,
		metrics:           recorder,
		registrationCfg:   registrationCfg,
		notifiers:         notifiers,
		logger:            logger,
		now:               time.Now,
		newActivationCode: uuid.NewString,
	}
}

// Register provisions the identity, then stores the profile linked to it.
// A failure after the identity was created leaves the identity in place; such
// orphans are found by the reconciliation job.
func (u *registrationUsecase) Register(ctx context.Context, params RegisterParams) (*model.Profile, error) {
	u.logger.Debug().Object("params", params).Msg("registering member")

	if err := u.validator.Struct(params); err != nil {
		var validationErrs validation.Errors
		if errors.As(err, &validationErrs) {
			u.metrics.RecordRegistration(metrics.OutcomeValidation)
			return nil, apperror.BadRequest(validationErrs.Error())
		}
		return nil, err
	}

	name := utilities.NormalizeWhitespace(params.Name)
	email := utilities.NormalizeWhitespace(params.Email)

	identity, err := u.provisionIdentity(ctx, email, name, params.Password)
	if err != nil {
		u.metrics.RecordRegistration(metrics.OutcomeProviderError)
		return nil, err
	}

	id := identity.Subject()
	if id == "" {
		u.logger.Error().
			Str("email", email).
			Object("identity", identity).
			Msg("identity was created without a sub attribute")
		u.metrics.RecordRegistration(metrics.OutcomeMissingSub)
		return nil, apperror.Internal(fmt.Sprintf(
			"identity for %s was created but has no sub attribute and cannot be linked to a profile", email,
		))
	}

	activationCode := u.newActivationCode()
	if err := u.guard.Check(ctx, id, activationCode); err != nil {
		u.metrics.RecordRegistration(metrics.OutcomeGuardRejected)
		return nil, err
	}

	profile := &model.Profile{
		ID:             id,
		CreatedAt:      u.now().UTC(),
		Email:          email,
		Name:           name,
		Handle:         utilities.Handle(name),
		ActivationCode: activationCode,
		SourceIP:       params.SourceIP,
		SourceSystem:   params.SourceSystem,
		Role:           model.RoleUser,
		Status:         model.StatusUnconfirmed,
		Badges:         []model.Badge{model.BadgeNewMember},
		Bio:            model.Bio{Avatar: u.registrationCfg.DefaultAvatar},
		Data:           map[string]any{},
	}

	if err := u.profileRepo.InsertProfile(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrProfileAlreadyExists) {
			u.metrics.RecordRegistration(metrics.OutcomeAlreadyExists)
			return nil, apperror.BadRequest("profile already exists")
		}

		u.logger.Error().
			Err(err).
			Str("error_type", fmt.Sprintf("%T", err)).
			Str("id", id).
			Msg("failed to insert profile")
		u.metrics.RecordRegistration(metrics.OutcomeStoreError)
		return nil, apperror.Internal("failed to store profile")
	}

	for _, notifier := range u.notifiers {
		if err := notifier.ProfileCreated(ctx, profile); err != nil {
			u.logger.Warn().Err(err).Str("id", id).Msg("failed to notify about new profile")
		}
	}

	u.metrics.RecordRegistration(metrics.OutcomeSuccess)
	u.logger.Info().
		Object("profile", profile).
		Object("identity", identity).
		Msg("member registered")

	return profile, nil
}

func (u *registrationUsecase) provisionIdentity(
	ctx context.Context,
	email, name, password string,
) (*provider.Identity, error) {
	identity, err := u.identityProvider.CreateIdentity(ctx, email, name)
	if err != nil {
		return nil, err
	}

	if err := u.identityProvider.SetCredential(ctx, email, password); err != nil {
		return nil, err
	}

	if err := u.identityProvider.AssignToGroups(ctx, email, u.registrationCfg.DefaultGroups); err != nil {
		return nil, err
	}

	return identity, nil
}
