package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"crowdfund/contexts/crowdfunding/identity-directory/application/commands"
	"crowdfund/contexts/crowdfunding/identity-directory/application/queries"
	"crowdfund/contexts/crowdfunding/identity-directory/domain/entities"
	httptransport "crowdfund/contexts/crowdfunding/identity-directory/transport/http"
)

type Handler struct {
	Register   commands.RegisterUseCase
	GetProfile queries.GetProfileUseCase
	Logger     *slog.Logger
}

// RegisterHandler godoc
// @Summary Register the caller's identity
// @Description Idempotent. Re-registering overwrites display name and contact.
// @Tags identity-directory
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller identity"
// @Param request body httptransport.RegisterRequest true "Profile fields"
// @Success 200 {object} httptransport.RegisterResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Router /v1/identities [post]
func (h Handler) RegisterHandler(
	ctx context.Context,
	identity string,
	req httptransport.RegisterRequest,
) (httptransport.RegisterResponse, error) {
	profile, err := h.Register.Execute(ctx, commands.RegisterCommand{
		Identity:    identity,
		DisplayName: req.DisplayName,
		Contact:     req.Contact,
	})
	if err != nil {
		return httptransport.RegisterResponse{}, err
	}
	return httptransport.RegisterResponse{Profile: mapProfile(profile)}, nil
}

// GetProfileHandler godoc
// @Summary Get an identity profile
// @Tags identity-directory
// @Produce json
// @Param identity path string true "Identity"
// @Success 200 {object} httptransport.GetProfileResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/identities/{identity} [get]
func (h Handler) GetProfileHandler(ctx context.Context, identity string) (httptransport.GetProfileResponse, error) {
	profile, err := h.GetProfile.Execute(ctx, identity)
	if err != nil {
		return httptransport.GetProfileResponse{}, err
	}
	return httptransport.GetProfileResponse{Profile: mapProfile(profile)}, nil
}

func mapProfile(item entities.Profile) httptransport.ProfileDTO {
	return httptransport.ProfileDTO{
		Identity:     item.Identity,
		DisplayName:  item.DisplayName,
		Contact:      item.Contact,
		Registered:   item.Registered,
		RegisteredAt: item.RegisteredAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
