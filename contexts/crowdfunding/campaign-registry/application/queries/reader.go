package queries

import (
	"context"
	"strings"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

// DefaultMaxPageSize bounds a page when no explicit limit is configured.
const DefaultMaxPageSize = 100

// Reader is the stateless read path over the campaign indices. Malformed or
// out-of-range pages yield an empty slice, never an error.
type Reader struct {
	Campaigns   ports.CampaignReader
	MaxPageSize int
}

func (r Reader) ListByOwner(ctx context.Context, owner string, page int, pageSize int) ([]entities.Campaign, error) {
	owner = strings.TrimSpace(owner)
	request, ok := r.page(page, pageSize)
	if !ok || owner == "" {
		return []entities.Campaign{}, nil
	}
	return r.Campaigns.ListByOwner(ctx, owner, request)
}

func (r Reader) CountByOwner(ctx context.Context, owner string) (int, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return 0, nil
	}
	return r.Campaigns.CountByOwner(ctx, owner)
}

func (r Reader) ListAll(ctx context.Context, page int, pageSize int) ([]entities.Campaign, error) {
	request, ok := r.page(page, pageSize)
	if !ok {
		return []entities.Campaign{}, nil
	}
	return r.Campaigns.ListAll(ctx, request)
}

func (r Reader) CountAll(ctx context.Context) (int, error) {
	return r.Campaigns.CountAll(ctx)
}

// PageSize is the size a page request of size is actually served with.
func (r Reader) PageSize(size int) int {
	return entities.Page{Size: size}.Clamp(r.maxPageSize()).Size
}

func (r Reader) maxPageSize() int {
	if r.MaxPageSize <= 0 {
		return DefaultMaxPageSize
	}
	return r.MaxPageSize
}

func (r Reader) page(number int, size int) (entities.Page, bool) {
	request := entities.Page{Number: number, Size: size}.Clamp(r.maxPageSize())
	return request, request.Number >= 1 && request.Size >= 1
}
