package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"

	"github.com/sasha-s/go-deadlock"
)

// BusNotifier publishes every change straight to the event bus under its
// change type as topic.
type BusNotifier struct {
	Publisher   ports.EventPublisher
	IDGenerator ports.IDGenerator
	Clock       ports.Clock
}

func (n BusNotifier) Notify(ctx context.Context, change entities.Change) error {
	envelope, err := buildEnvelope(ctx, n.IDGenerator, n.Clock, change)
	if err != nil {
		return err
	}
	return n.Publisher.Publish(ctx, envelope.EventType, envelope)
}

// OutboxNotifier appends every change to the outbox; OutboxRelay publishes
// the rows later.
type OutboxNotifier struct {
	Outbox      ports.OutboxWriter
	IDGenerator ports.IDGenerator
	Clock       ports.Clock
}

func (n OutboxNotifier) Notify(ctx context.Context, change entities.Change) error {
	envelope, err := buildEnvelope(ctx, n.IDGenerator, n.Clock, change)
	if err != nil {
		return err
	}
	return n.Outbox.AppendOutbox(ctx, envelope)
}

func buildEnvelope(
	ctx context.Context,
	ids ports.IDGenerator,
	clock ports.Clock,
	change entities.Change,
) (ports.EventEnvelope, error) {
	if ids == nil {
		return ports.EventEnvelope{}, errors.New("event id generator is not configured")
	}
	eventID, err := ids.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, fmt.Errorf("generate event id: %w", err)
	}
	now := time.Now().UTC()
	if clock != nil {
		now = clock.Now()
	}
	return NewEnvelope(eventID, change, now)
}

// Recorder keeps every change in memory in emission order.
type Recorder struct {
	mu      deadlock.Mutex
	changes []entities.Change
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, change entities.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

// Changes returns a copy of the recorded log.
func (r *Recorder) Changes() []entities.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Change(nil), r.changes...)
}

// Fanout delivers a change to every notifier and joins their failures.
type Fanout []ports.ChangeNotifier

func (f Fanout) Notify(ctx context.Context, change entities.Change) error {
	var errs []error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
