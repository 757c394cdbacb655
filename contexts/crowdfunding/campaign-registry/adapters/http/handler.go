package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "crowdfund/contexts/crowdfunding/campaign-registry/application"
	"crowdfund/contexts/crowdfunding/campaign-registry/application/commands"
	"crowdfund/contexts/crowdfunding/campaign-registry/application/queries"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	httptransport "crowdfund/contexts/crowdfunding/campaign-registry/transport/http"
)

type Handler struct {
	CreateCampaign commands.CreateCampaignUseCase
	UpdateCampaign commands.UpdateCampaignUseCase
	DeleteCampaign commands.DeleteCampaignUseCase
	GetCampaign    queries.GetCampaignUseCase
	ListCampaigns  queries.ListCampaignsUseCase
	Logger         *slog.Logger
}

// CreateCampaignHandler godoc
// @Summary Create a campaign
// @Description Creates a campaign owned by the caller and returns its owner-scoped id.
// @Tags campaign-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller identity"
// @Param request body httptransport.CreateCampaignRequest true "Campaign fields"
// @Success 201 {object} httptransport.CreateCampaignResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /v1/campaigns [post]
func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	owner string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	campaign, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		Owner:       owner,
		Name:        req.Name,
		Description: req.Description,
		TargetFund:  req.TargetFund,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.logFailure("create", owner, err)
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{
		LocalID:  campaign.LocalID,
		Campaign: mapCampaign(campaign),
	}, nil
}

// UpdateCampaignHandler godoc
// @Summary Update a campaign
// @Description Empty name or description and zero target_fund keep the stored values. deadline is always written.
// @Tags campaign-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller identity"
// @Param owner path string true "Campaign owner"
// @Param local_id path int true "Owner-scoped campaign id"
// @Param request body httptransport.UpdateCampaignRequest true "Campaign fields"
// @Success 200 {object} httptransport.CampaignResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/owners/{owner}/campaigns/{local_id} [patch]
func (h Handler) UpdateCampaignHandler(
	ctx context.Context,
	caller string,
	owner string,
	localID uint64,
	req httptransport.UpdateCampaignRequest,
) (httptransport.CampaignResponse, error) {
	campaign, err := h.UpdateCampaign.Execute(ctx, commands.UpdateCampaignCommand{
		Caller:      caller,
		Owner:       owner,
		LocalID:     localID,
		Name:        req.Name,
		Description: req.Description,
		TargetFund:  req.TargetFund,
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.logFailure("update", caller, err)
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(campaign)}, nil
}

// DeleteCampaignHandler godoc
// @Summary Delete a campaign
// @Tags campaign-registry
// @Param X-User-Id header string true "Caller identity"
// @Param owner path string true "Campaign owner"
// @Param local_id path int true "Owner-scoped campaign id"
// @Success 204
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/owners/{owner}/campaigns/{local_id} [delete]
func (h Handler) DeleteCampaignHandler(ctx context.Context, caller string, owner string, localID uint64) error {
	err := h.DeleteCampaign.Execute(ctx, commands.DeleteCampaignCommand{
		Caller:  caller,
		Owner:   owner,
		LocalID: localID,
	})
	if err != nil {
		h.logFailure("delete", caller, err)
	}
	return err
}

// GetCampaignHandler godoc
// @Summary Get a campaign
// @Tags campaign-registry
// @Produce json
// @Param owner path string true "Campaign owner"
// @Param local_id path int true "Owner-scoped campaign id"
// @Success 200 {object} httptransport.CampaignResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/owners/{owner}/campaigns/{local_id} [get]
func (h Handler) GetCampaignHandler(ctx context.Context, owner string, localID uint64) (httptransport.CampaignResponse, error) {
	campaign, err := h.GetCampaign.Execute(ctx, owner, localID)
	if err != nil {
		return httptransport.CampaignResponse{}, err
	}
	return httptransport.CampaignResponse{Campaign: mapCampaign(campaign)}, nil
}

// ListCampaignsHandler godoc
// @Summary List campaigns
// @Description Pages the global index, or one owner's index under /v1/owners/{owner}/campaigns.
// @Tags campaign-registry
// @Produce json
// @Param page query int false "1-based page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} httptransport.ListCampaignsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /v1/campaigns [get]
// @Router /v1/owners/{owner}/campaigns [get]
func (h Handler) ListCampaignsHandler(
	ctx context.Context,
	owner string,
	page int,
	pageSize int,
) (httptransport.ListCampaignsResponse, error) {
	result, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		Owner:    owner,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	items := make([]httptransport.CampaignDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, mapCampaign(item))
	}
	return httptransport.ListCampaignsResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}, nil
}

func (h Handler) logFailure(operation string, caller string, err error) {
	application.ResolveLogger(h.Logger).Warn("campaign request failed",
		"event", "http_campaign_"+operation+"_failed",
		"module", "crowdfunding/campaign-registry",
		"layer", "transport",
		"caller", caller,
		"error", err.Error(),
	)
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	return httptransport.CampaignDTO{
		Owner:       item.Owner,
		LocalID:     item.LocalID,
		Name:        item.Name,
		Description: item.Description,
		TargetFund:  item.TargetFund,
		CurrentFund: item.CurrentFund,
		Deadline:    item.Deadline,
		Active:      item.Active,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
