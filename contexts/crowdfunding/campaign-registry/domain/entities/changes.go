package entities

const (
	ChangeTypeCreated = "campaign.created"
	ChangeTypeUpdated = "campaign.updated"
	ChangeTypeDeleted = "campaign.deleted"
)

// Change is one record emitted after a successful mutation.
type Change interface {
	ChangeType() string
	// PartitionOwner is the owner the change belongs to. It routes the record
	// and is not part of every payload.
	PartitionOwner() string
}

type CampaignCreated struct {
	Owner       string `json:"owner"`
	LocalID     uint64 `json:"local_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetFund  uint64 `json:"target_fund"`
	Deadline    int64  `json:"deadline"`
}

func (CampaignCreated) ChangeType() string       { return ChangeTypeCreated }
func (c CampaignCreated) PartitionOwner() string { return c.Owner }

// CampaignUpdated carries the arguments exactly as supplied, sentinels
// included, not the merged record.
type CampaignUpdated struct {
	Owner       string `json:"-"`
	LocalID     uint64 `json:"local_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetFund  uint64 `json:"target_fund"`
	Deadline    int64  `json:"deadline"`
}

func (CampaignUpdated) ChangeType() string       { return ChangeTypeUpdated }
func (c CampaignUpdated) PartitionOwner() string { return c.Owner }

type CampaignDeleted struct {
	Owner   string `json:"-"`
	LocalID uint64 `json:"local_id"`
}

func (CampaignDeleted) ChangeType() string       { return ChangeTypeDeleted }
func (c CampaignDeleted) PartitionOwner() string { return c.Owner }
