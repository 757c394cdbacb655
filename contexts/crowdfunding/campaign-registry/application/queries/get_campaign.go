package queries

import (
	"context"
	"strings"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	domainerrors "crowdfund/contexts/crowdfunding/campaign-registry/domain/errors"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, owner string, localID uint64) (entities.Campaign, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" || localID == 0 {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return uc.Campaigns.GetCampaign(ctx, entities.Key{Owner: owner, LocalID: localID})
}
