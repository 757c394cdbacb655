package commands

import (
	"context"
	"log/slog"
	"strings"

	application "crowdfund/contexts/crowdfunding/campaign-registry/application"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/campaign-registry/domain/errors"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

// UpdateCampaignCommand uses sentinel values: an empty Name or Description
// and a zero TargetFund keep the stored value. Deadline is always written.
type UpdateCampaignCommand struct {
	Caller string
	// Owner selects whose campaign LocalID refers to. Empty means Caller.
	Owner       string
	LocalID     uint64
	Name        string
	Description string
	TargetFund  uint64
	Deadline    int64
}

type UpdateCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Locks     ports.OwnerLocker
	Notifier  ports.ChangeNotifier
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc UpdateCampaignUseCase) Execute(ctx context.Context, cmd UpdateCampaignCommand) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	key := resolveKey(cmd.Caller, cmd.Owner, cmd.LocalID)

	unlock := application.LockOwner(uc.Locks, key.Owner)
	defer unlock()

	campaign, err := loadOwned(ctx, uc.Campaigns, strings.TrimSpace(cmd.Caller), key)
	if err != nil {
		return entities.Campaign{}, err
	}

	updated, err := uc.Campaigns.UpdateCampaign(ctx, campaign.Key(), entities.Patch{
		Name:        cmd.Name,
		Description: cmd.Description,
		TargetFund:  cmd.TargetFund,
		Deadline:    cmd.Deadline,
	}, uc.Clock.Now().UTC())
	if err != nil {
		return entities.Campaign{}, err
	}

	application.Notify(ctx, uc.Notifier, logger, entities.CampaignUpdated{
		Owner:       updated.Owner,
		LocalID:     cmd.LocalID,
		Name:        cmd.Name,
		Description: cmd.Description,
		TargetFund:  cmd.TargetFund,
		Deadline:    cmd.Deadline,
	})

	logger.Info("campaign updated",
		"event", "campaign_updated",
		"module", "crowdfunding/campaign-registry",
		"layer", "application",
		"owner", updated.Owner,
		"local_id", updated.LocalID,
	)
	return updated, nil
}

func resolveKey(caller string, owner string, localID uint64) entities.Key {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = strings.TrimSpace(caller)
	}
	return entities.Key{Owner: owner, LocalID: localID}
}

// loadOwned looks the campaign up under its owner first, so a missing record
// reports not found before ownership is considered.
func loadOwned(ctx context.Context, campaigns ports.CampaignRepository, caller string, key entities.Key) (entities.Campaign, error) {
	if key.Owner == "" || key.LocalID == 0 {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	campaign, err := campaigns.GetCampaign(ctx, key)
	if err != nil {
		return entities.Campaign{}, err
	}
	if caller == "" || campaign.Owner != caller {
		return entities.Campaign{}, domainerrors.ErrForbidden
	}
	return campaign, nil
}
