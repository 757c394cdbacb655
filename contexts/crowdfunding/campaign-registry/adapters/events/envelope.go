package events

import (
	"encoding/json"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
	contractsv1 "crowdfund/contracts/gen/events/v1"
)

const sourceService = "campaign-registry"

// NewEnvelope wraps change in the versioned event envelope. The owner is the
// partition key, so one owner's changes stay ordered on a partitioned bus.
func NewEnvelope(eventID string, change entities.Change, occurredAt time.Time) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(change)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        change.ChangeType(),
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    contractsv1.SchemaVersion,
		PartitionKeyPath: "owner",
		PartitionKey:     change.PartitionOwner(),
		Data:             payload,
	}, nil
}
