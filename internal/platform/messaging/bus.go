package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	contractsv1 "crowdfund/contracts/gen/events/v1"

	"github.com/sasha-s/go-deadlock"
)

const groupBuffer = 128

// ErrSubscriberBusy reports that at least one consumer group's queue was full
// and the event was not handed to it.
var ErrSubscriberBusy = errors.New("messaging: subscriber buffer full")

// groupQueue is the queue shared by every member of one consumer group on one
// topic. Each event lands on it once and is taken by a single member.
type groupQueue struct {
	events  chan contractsv1.Envelope
	members int
}

// Bus is the in-process publish/subscribe event bus used by the change
// notifier and the outbox relay. Topics are event types. Every consumer group
// subscribed to a topic receives each event once; members of the same group
// compete for it.
type Bus struct {
	mu        deadlock.RWMutex
	topics    map[string]map[string]*groupQueue
	consumers sync.WaitGroup
	logger    *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		topics: make(map[string]map[string]*groupQueue),
		logger: logger,
	}
}

// Publish enqueues event for every consumer group of topic without waiting
// for slow consumers. A group whose queue is full misses the event and
// Publish returns ErrSubscriberBusy, so callers that must not lose events can
// retry. Publishing to a topic nobody subscribes to is not an error.
func (b *Bus) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	b.mu.RLock()
	groups := make(map[string]chan contractsv1.Envelope, len(b.topics[topic]))
	for group, queue := range b.topics[topic] {
		groups[group] = queue.events
	}
	b.mu.RUnlock()

	var busy []string
	for group, queue := range groups {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case queue <- event:
		default:
			busy = append(busy, group)
		}
	}

	if len(busy) > 0 {
		sort.Strings(busy)
		if b.logger != nil {
			b.logger.Warn("event not enqueued for busy consumer groups",
				"event", "bus_publish_busy",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
				"consumer_groups", busy,
			)
		}
		return fmt.Errorf("%w: topic %s, groups %v", ErrSubscriberBusy, topic, busy)
	}

	if b.logger != nil {
		b.logger.Debug("event published",
			"event", "bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"partition_key", event.PartitionKey,
			"consumer_groups", len(groups),
		)
	}
	return nil
}

// Subscribe joins consumerGroup on topic and starts a member goroutine that
// runs until ctx is cancelled. Handler errors are logged and do not stop the
// member.
func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, contractsv1.Envelope) error,
) error {
	if handler == nil {
		return fmt.Errorf("subscribe %s/%s: nil handler", topic, consumerGroup)
	}
	queue := b.join(topic, consumerGroup)

	b.consumers.Add(1)
	go func() {
		defer b.consumers.Done()
		defer b.leave(topic, consumerGroup)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-queue:
				b.handle(ctx, topic, consumerGroup, event, handler)
			}
		}
	}()
	return nil
}

// Wait blocks until every member goroutine has returned.
func (b *Bus) Wait() {
	b.consumers.Wait()
}

func (b *Bus) handle(
	ctx context.Context,
	topic string,
	consumerGroup string,
	event contractsv1.Envelope,
	handler func(context.Context, contractsv1.Envelope) error,
) {
	err := handler(ctx, event)
	if err == nil || b.logger == nil {
		return
	}
	b.logger.Error("consumer handler failed",
		"event", "bus_consume_failed",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"consumer_group", consumerGroup,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"error", err.Error(),
	)
}

func (b *Bus) join(topic string, consumerGroup string) chan contractsv1.Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()

	groups, ok := b.topics[topic]
	if !ok {
		groups = make(map[string]*groupQueue)
		b.topics[topic] = groups
	}
	queue, ok := groups[consumerGroup]
	if !ok {
		queue = &groupQueue{events: make(chan contractsv1.Envelope, groupBuffer)}
		groups[consumerGroup] = queue
	}
	queue.members++
	return queue.events
}

// leave drops one member. The group's queue, with anything still buffered on
// it, goes away with its last member.
func (b *Bus) leave(topic string, consumerGroup string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	groups := b.topics[topic]
	queue, ok := groups[consumerGroup]
	if !ok {
		return
	}
	queue.members--
	if queue.members > 0 {
		return
	}
	delete(groups, consumerGroup)
	if len(groups) == 0 {
		delete(b.topics, topic)
	}
}
