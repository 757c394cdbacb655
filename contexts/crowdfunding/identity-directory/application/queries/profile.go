package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "crowdfund/contexts/crowdfunding/identity-directory/application"
	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/identity-directory/domain/errors"
	"crowdfund/contexts/crowdfunding/identity-directory/ports"
)

type GetProfileUseCase struct {
	Profiles ports.ProfileRepository
	Logger   *slog.Logger
}

func (uc GetProfileUseCase) Execute(ctx context.Context, identity string) (entities.Profile, error) {
	logger := application.ResolveLogger(uc.Logger)
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return entities.Profile{}, domainerrors.ErrInvalidArgument
	}
	profile, err := uc.Profiles.GetProfile(ctx, identity)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrIdentityNotFound) {
			logFailure(logger, "identity_profile_lookup_failed", identity, err)
		}
		return entities.Profile{}, err
	}
	logger.Debug("identity profile loaded",
		"event", "identity_profile_loaded",
		"module", "crowdfunding/identity-directory",
		"layer", "application",
		"identity", identity,
	)
	return profile, nil
}

// IsRegisteredUseCase answers the registration gate used by other contexts.
type IsRegisteredUseCase struct {
	Profiles ports.ProfileRepository
	Logger   *slog.Logger
}

func (uc IsRegisteredUseCase) Execute(ctx context.Context, identity string) (bool, error) {
	logger := application.ResolveLogger(uc.Logger)
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, nil
	}
	profile, err := uc.Profiles.GetProfile(ctx, identity)
	if err != nil {
		if errors.Is(err, domainerrors.ErrIdentityNotFound) {
			logger.Debug("identity not registered",
				"event", "identity_registration_missing",
				"module", "crowdfunding/identity-directory",
				"layer", "application",
				"identity", identity,
			)
			return false, nil
		}
		logFailure(logger, "identity_registration_check_failed", identity, err)
		return false, err
	}
	return profile.Registered, nil
}

func logFailure(logger *slog.Logger, event string, identity string, err error) {
	logger.Error("identity lookup failed",
		"event", event,
		"module", "crowdfunding/identity-directory",
		"layer", "application",
		"identity", identity,
		"error", err.Error(),
	)
}
