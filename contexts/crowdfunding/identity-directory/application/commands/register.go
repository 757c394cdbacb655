package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crowdfund/contexts/crowdfunding/identity-directory/application"
	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/identity-directory/domain/errors"
	"crowdfund/contexts/crowdfunding/identity-directory/ports"
)

type RegisterCommand struct {
	Identity    string
	DisplayName string
	Contact     string
}

type RegisterUseCase struct {
	Profiles ports.ProfileRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (uc RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (entities.Profile, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()
	profile := entities.Profile{
		Identity:     strings.TrimSpace(cmd.Identity),
		DisplayName:  strings.TrimSpace(cmd.DisplayName),
		Contact:      strings.TrimSpace(cmd.Contact),
		Registered:   true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if !profile.Validate() {
		return entities.Profile{}, domainerrors.ErrInvalidArgument
	}

	stored, err := uc.Profiles.UpsertProfile(ctx, profile)
	if err != nil {
		return entities.Profile{}, err
	}

	logger.Info("identity registered",
		"event", "identity_registered",
		"module", "crowdfunding/identity-directory",
		"layer", "application",
		"identity", stored.Identity,
	)
	return stored, nil
}
