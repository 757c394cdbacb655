package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crowdfund/contexts/crowdfunding/campaign-registry/application"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

type DeleteCampaignCommand struct {
	Caller  string
	Owner   string
	LocalID uint64
}

type DeleteCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Locks     ports.OwnerLocker
	Notifier  ports.ChangeNotifier
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc DeleteCampaignUseCase) Execute(ctx context.Context, cmd DeleteCampaignCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	key := resolveKey(cmd.Caller, cmd.Owner, cmd.LocalID)

	unlock := application.LockOwner(uc.Locks, key.Owner)
	defer unlock()

	campaign, err := loadOwned(ctx, uc.Campaigns, strings.TrimSpace(cmd.Caller), key)
	if err != nil {
		return err
	}
	if err := uc.Campaigns.DeleteCampaign(ctx, campaign.Key(), uc.Clock.Now().UTC()); err != nil {
		return err
	}

	application.Notify(ctx, uc.Notifier, logger, entities.CampaignDeleted{
		Owner:   campaign.Owner,
		LocalID: campaign.LocalID,
	})

	logger.Info("campaign deleted",
		"event", "campaign_deleted",
		"module", "crowdfunding/campaign-registry",
		"layer", "application",
		"owner", campaign.Owner,
		"local_id", campaign.LocalID,
	)
	return nil
}
