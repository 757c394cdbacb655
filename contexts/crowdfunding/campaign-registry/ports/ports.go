package ports

import (
	"context"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	contractsv1 "crowdfund/contracts/gen/events/v1"
)

// CampaignRepository owns the canonical campaign table and both ordered
// indices. Implementations apply every mutation to all three atomically.
type CampaignRepository interface {
	// CreateCampaign allocates the next local id for campaign.Owner, appends
	// the record to both indices and returns the stored record.
	CreateCampaign(ctx context.Context, campaign entities.Campaign) (entities.Campaign, error)
	// GetCampaign returns a live campaign or ErrCampaignNotFound.
	GetCampaign(ctx context.Context, key entities.Key) (entities.Campaign, error)
	// UpdateCampaign merges patch into the live record and writes it back as
	// one step, so concurrent partial updates never overwrite each other's
	// fields with stale values.
	UpdateCampaign(ctx context.Context, key entities.Key, patch entities.Patch, updatedAt time.Time) (entities.Campaign, error)
	DeleteCampaign(ctx context.Context, key entities.Key, deletedAt time.Time) error
}

type CampaignReader interface {
	ListByOwner(ctx context.Context, owner string, page entities.Page) ([]entities.Campaign, error)
	CountByOwner(ctx context.Context, owner string) (int, error)
	ListAll(ctx context.Context, page entities.Page) ([]entities.Campaign, error)
	CountAll(ctx context.Context) (int, error)
}

type RegistrationChecker interface {
	IsRegistered(ctx context.Context, identity string) (bool, error)
}

// RegistrationCheckerFunc adapts a plain function to RegistrationChecker.
type RegistrationCheckerFunc func(ctx context.Context, identity string) (bool, error)

func (f RegistrationCheckerFunc) IsRegistered(ctx context.Context, identity string) (bool, error) {
	return f(ctx, identity)
}

// OwnerLocker serializes mutations per owner. Lock blocks until the owner is
// free and returns the matching unlock.
type OwnerLocker interface {
	Lock(owner string) (unlock func())
}

type ChangeNotifier interface {
	Notify(ctx context.Context, change entities.Change) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
