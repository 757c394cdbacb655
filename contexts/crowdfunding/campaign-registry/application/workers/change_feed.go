package workers

import (
	"context"
	"fmt"
	"log/slog"

	application "crowdfund/contexts/crowdfunding/campaign-registry/application"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
)

// ChangeFeedConsumer subscribes to the campaign change topics and hands each
// decoded record to Handle.
type ChangeFeedConsumer struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	Handle        func(ctx context.Context, change entities.Change) error
	Logger        *slog.Logger
}

func (c ChangeFeedConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = "campaign-registry-change-feed"
	}
	topics := []string{
		entities.ChangeTypeCreated,
		entities.ChangeTypeUpdated,
		entities.ChangeTypeDeleted,
	}
	for _, topic := range topics {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.consume); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return nil
}

func (c ChangeFeedConsumer) consume(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	change, err := DecodeChange(event)
	if err != nil {
		return err
	}
	logger.Info("campaign change received",
		"event", "campaign_change_received",
		"module", "crowdfunding/campaign-registry",
		"layer", "worker",
		"event_id", event.EventID,
		"change_type", change.ChangeType(),
		"owner", change.PartitionOwner(),
	)
	if c.Handle == nil {
		return nil
	}
	return c.Handle(ctx, change)
}

// DecodeChange turns an envelope back into its change record. The owner of
// updated and deleted records comes from the partition key.
func DecodeChange(event ports.EventEnvelope) (entities.Change, error) {
	switch event.EventType {
	case entities.ChangeTypeCreated:
		var change entities.CampaignCreated
		if err := event.DecodeData(&change); err != nil {
			return nil, err
		}
		return change, nil
	case entities.ChangeTypeUpdated:
		var change entities.CampaignUpdated
		if err := event.DecodeData(&change); err != nil {
			return nil, err
		}
		change.Owner = event.PartitionKey
		return change, nil
	case entities.ChangeTypeDeleted:
		var change entities.CampaignDeleted
		if err := event.DecodeData(&change); err != nil {
			return nil, err
		}
		change.Owner = event.PartitionKey
		return change, nil
	default:
		return nil, fmt.Errorf("unknown campaign change type %q", event.EventType)
	}
}
