package queries

import (
	"context"
	"log/slog"
	"strings"

	application "crowdfund/contexts/crowdfunding/campaign-registry/application"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
)

type ListCampaignsQuery struct {
	// Owner restricts the listing to one owner's index. Empty lists the
	// global index.
	Owner    string
	Page     int
	PageSize int
}

type ListCampaignsResult struct {
	Items []entities.Campaign
	Total int
	Page  int
	// PageSize is the size the page was served with, after clamping to the
	// reader's maximum.
	PageSize int
}

type ListCampaignsUseCase struct {
	Reader Reader
	Logger *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) (ListCampaignsResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	owner := strings.TrimSpace(query.Owner)

	var (
		items []entities.Campaign
		total int
		err   error
	)
	if owner == "" {
		items, err = uc.Reader.ListAll(ctx, query.Page, query.PageSize)
		if err == nil {
			total, err = uc.Reader.CountAll(ctx)
		}
	} else {
		items, err = uc.Reader.ListByOwner(ctx, owner, query.Page, query.PageSize)
		if err == nil {
			total, err = uc.Reader.CountByOwner(ctx, owner)
		}
	}
	if err != nil {
		return ListCampaignsResult{}, err
	}

	logger.Debug("campaigns listed",
		"event", "campaigns_listed",
		"module", "crowdfunding/campaign-registry",
		"layer", "application",
		"owner", owner,
		"page", query.Page,
		"page_size", uc.Reader.PageSize(query.PageSize),
		"count", len(items),
		"total", total,
	)
	return ListCampaignsResult{
		Items:    items,
		Total:    total,
		Page:     query.Page,
		PageSize: uc.Reader.PageSize(query.PageSize),
	}, nil
}
