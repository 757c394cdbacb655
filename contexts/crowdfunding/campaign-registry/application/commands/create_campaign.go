package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "crowdfund/contexts/crowdfunding/campaign-registry/application"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/campaign-registry/domain/errors"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

type CreateCampaignCommand struct {
	Owner       string
	Name        string
	Description string
	TargetFund  uint64
	Deadline    int64
}

type CreateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Registry  ports.RegistrationChecker
	Locks     ports.OwnerLocker
	Notifier  ports.ChangeNotifier
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	owner := strings.TrimSpace(cmd.Owner)
	if owner == "" {
		return entities.Campaign{}, domainerrors.ErrUnauthorized
	}

	unlock := application.LockOwner(uc.Locks, owner)
	defer unlock()

	registered, err := uc.Registry.IsRegistered(ctx, owner)
	if err != nil {
		return entities.Campaign{}, fmt.Errorf("check registration: %w", err)
	}
	if !registered {
		return entities.Campaign{}, domainerrors.ErrUnauthorized
	}

	now := uc.Clock.Now().UTC()
	if !entities.ValidateNew(owner, cmd.TargetFund, cmd.Deadline, now) {
		return entities.Campaign{}, domainerrors.ErrInvalidArgument
	}

	campaign, err := uc.Campaigns.CreateCampaign(ctx, entities.Campaign{
		Owner:       owner,
		Name:        cmd.Name,
		Description: cmd.Description,
		TargetFund:  cmd.TargetFund,
		CurrentFund: 0,
		Deadline:    cmd.Deadline,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return entities.Campaign{}, err
	}

	application.Notify(ctx, uc.Notifier, logger, entities.CampaignCreated{
		Owner:       campaign.Owner,
		LocalID:     campaign.LocalID,
		Name:        campaign.Name,
		Description: campaign.Description,
		TargetFund:  campaign.TargetFund,
		Deadline:    campaign.Deadline,
	})

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "crowdfunding/campaign-registry",
		"layer", "application",
		"owner", campaign.Owner,
		"local_id", campaign.LocalID,
	)
	return campaign, nil
}
