package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetFund  uint64 `json:"target_fund"`
	Deadline    int64  `json:"deadline"`
}

type CreateCampaignResponse struct {
	LocalID  uint64      `json:"local_id"`
	Campaign CampaignDTO `json:"campaign"`
}

// UpdateCampaignRequest keeps the registry's sentinel rules: an empty name or
// description and a zero target_fund leave the stored value in place.
// deadline is always written.
type UpdateCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetFund  uint64 `json:"target_fund"`
	Deadline    int64  `json:"deadline"`
}

type CampaignDTO struct {
	Owner       string `json:"owner"`
	LocalID     uint64 `json:"local_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetFund  uint64 `json:"target_fund"`
	CurrentFund uint64 `json:"current_fund"`
	Deadline    int64  `json:"deadline"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items    []CampaignDTO `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
