package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"

	"github.com/google/go-cmp/cmp"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeOutbox struct {
	rows      []ports.OutboxMessage
	listErr   error
	published map[string]time.Time
}

func (o *fakeOutbox) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if o.listErr != nil {
		return nil, o.listErr
	}
	pending := make([]ports.OutboxMessage, 0, len(o.rows))
	for _, row := range o.rows {
		if _, done := o.published[row.OutboxID]; done {
			continue
		}
		if len(pending) == limit {
			break
		}
		pending = append(pending, row)
	}
	return pending, nil
}

func (o *fakeOutbox) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	if o.published == nil {
		o.published = map[string]time.Time{}
	}
	o.published[outboxID] = publishedAt
	return nil
}

type publishedEvent struct {
	Topic   string
	EventID string
}

type recordingPublisher struct {
	events []publishedEvent
	failOn string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if event.EventID == p.failOn {
		return errors.New("bus unavailable")
	}
	p.events = append(p.events, publishedEvent{Topic: topic, EventID: event.EventID})
	return nil
}

func envelopeFor(t *testing.T, eventID string, change entities.Change) ports.EventEnvelope {
	t.Helper()
	data, err := json.Marshal(change)
	if err != nil {
		t.Fatalf("marshal change: %v", err)
	}
	return ports.EventEnvelope{
		EventID:      eventID,
		EventType:    change.ChangeType(),
		PartitionKey: change.PartitionOwner(),
		Data:         data,
	}
}

func outboxRow(t *testing.T, outboxID string, eventType string, envelope ports.EventEnvelope) ports.OutboxMessage {
	t.Helper()
	payload, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return ports.OutboxMessage{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
	}
}

func TestOutboxRelayPublishesThenMarks(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	created := envelopeFor(t, "evt-1", entities.CampaignCreated{Owner: "0xA", LocalID: 1, Name: "a1"})
	untyped := envelopeFor(t, "evt-2", entities.CampaignDeleted{Owner: "0xA", LocalID: 1})
	untyped.EventType = ""

	outbox := &fakeOutbox{rows: []ports.OutboxMessage{
		outboxRow(t, "row-1", entities.ChangeTypeCreated, created),
		outboxRow(t, "row-2", entities.ChangeTypeDeleted, untyped),
	}}
	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: outbox, Publisher: publisher, Clock: fixedClock{now: now}}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}

	want := []publishedEvent{
		{Topic: entities.ChangeTypeCreated, EventID: "evt-1"},
		{Topic: entities.ChangeTypeDeleted, EventID: "evt-2"},
	}
	if diff := cmp.Diff(want, publisher.events); diff != "" {
		t.Fatalf("published events mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]time.Time{"row-1": now, "row-2": now}, outbox.published); diff != "" {
		t.Fatalf("published marks mismatch (-want +got):\n%s", diff)
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay failed: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("expected no republish of marked rows, got %+v", publisher.events)
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	outbox := &fakeOutbox{rows: []ports.OutboxMessage{
		outboxRow(t, "row-1", entities.ChangeTypeCreated, envelopeFor(t, "evt-1", entities.CampaignCreated{Owner: "0xA", LocalID: 1})),
		outboxRow(t, "row-2", entities.ChangeTypeCreated, envelopeFor(t, "evt-2", entities.CampaignCreated{Owner: "0xA", LocalID: 2})),
		outboxRow(t, "row-3", entities.ChangeTypeCreated, envelopeFor(t, "evt-3", entities.CampaignCreated{Owner: "0xA", LocalID: 3})),
	}}
	publisher := &recordingPublisher{failOn: "evt-2"}
	relay := OutboxRelay{Outbox: outbox, Publisher: publisher}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected publish failure to surface")
	}
	if _, ok := outbox.published["row-1"]; !ok {
		t.Fatalf("expected row-1 to be marked published")
	}
	for _, id := range []string{"row-2", "row-3"} {
		if _, ok := outbox.published[id]; ok {
			t.Fatalf("expected %s to stay pending", id)
		}
	}

	publisher.failOn = ""
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if len(outbox.published) != 3 {
		t.Fatalf("expected all rows published after retry, got %v", outbox.published)
	}
}

func TestOutboxRelayHonoursBatchSizeAndListErrors(t *testing.T) {
	outbox := &fakeOutbox{rows: []ports.OutboxMessage{
		outboxRow(t, "row-1", entities.ChangeTypeCreated, envelopeFor(t, "evt-1", entities.CampaignCreated{Owner: "0xA", LocalID: 1})),
		outboxRow(t, "row-2", entities.ChangeTypeCreated, envelopeFor(t, "evt-2", entities.CampaignCreated{Owner: "0xA", LocalID: 2})),
	}}
	publisher := &recordingPublisher{}
	relay := OutboxRelay{Outbox: outbox, Publisher: publisher, BatchSize: 1}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one event per batch of 1, got %+v", publisher.events)
	}

	outbox.listErr = errors.New("db down")
	if err := relay.RunOnce(context.Background()); !errors.Is(err, outbox.listErr) {
		t.Fatalf("expected list error, got %v", err)
	}
}

func TestOutboxRelayRejectsUndecodablePayload(t *testing.T) {
	outbox := &fakeOutbox{rows: []ports.OutboxMessage{{OutboxID: "row-1", Payload: []byte("{")}}}
	relay := OutboxRelay{Outbox: outbox, Publisher: &recordingPublisher{}}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected decode failure")
	}
	if len(outbox.published) != 0 {
		t.Fatalf("undecodable row must stay pending")
	}
}

type capturingSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
	groups   []string
	failOn   string
}

func (s *capturingSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if topic == s.failOn {
		return errors.New("subscribe refused")
	}
	if s.handlers == nil {
		s.handlers = map[string]func(context.Context, ports.EventEnvelope) error{}
	}
	s.handlers[topic] = handler
	s.groups = append(s.groups, consumerGroup)
	return nil
}

func TestChangeFeedConsumerDecodesEveryTopic(t *testing.T) {
	subscriber := &capturingSubscriber{}
	var got []entities.Change
	consumer := ChangeFeedConsumer{
		Subscriber: subscriber,
		Handle: func(_ context.Context, change entities.Change) error {
			got = append(got, change)
			return nil
		},
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(subscriber.handlers) != 3 {
		t.Fatalf("expected three topic subscriptions, got %d", len(subscriber.handlers))
	}
	for _, group := range subscriber.groups {
		if group != "campaign-registry-change-feed" {
			t.Fatalf("expected default consumer group, got %q", group)
		}
	}

	changes := []entities.Change{
		entities.CampaignCreated{Owner: "0xA", LocalID: 1, Name: "a1", TargetFund: 10, Deadline: 99},
		entities.CampaignUpdated{Owner: "0xA", LocalID: 1, Description: "new", Deadline: 100},
		entities.CampaignDeleted{Owner: "0xA", LocalID: 1},
	}
	for i, change := range changes {
		handler := subscriber.handlers[change.ChangeType()]
		if err := handler(context.Background(), envelopeFor(t, string(rune('a'+i)), change)); err != nil {
			t.Fatalf("consume %s failed: %v", change.ChangeType(), err)
		}
	}
	if diff := cmp.Diff(changes, got); diff != "" {
		t.Fatalf("decoded changes mismatch (-want +got):\n%s", diff)
	}

	unknown := ports.EventEnvelope{EventID: "x", EventType: "campaign.funded", Data: []byte("{}")}
	if err := subscriber.handlers[entities.ChangeTypeCreated](context.Background(), unknown); err == nil {
		t.Fatalf("expected unknown change type to fail")
	}
}

func TestChangeFeedConsumerSurfacesSubscribeAndHandleErrors(t *testing.T) {
	consumer := ChangeFeedConsumer{Subscriber: &capturingSubscriber{failOn: entities.ChangeTypeUpdated}}
	if err := consumer.Start(context.Background()); err == nil {
		t.Fatalf("expected subscribe failure to surface")
	}

	subscriber := &capturingSubscriber{}
	handleErr := errors.New("projection failed")
	consumer = ChangeFeedConsumer{
		Subscriber:    subscriber,
		ConsumerGroup: "custom",
		Handle: func(context.Context, entities.Change) error {
			return handleErr
		},
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if subscriber.groups[0] != "custom" {
		t.Fatalf("expected custom consumer group, got %q", subscriber.groups[0])
	}
	event := envelopeFor(t, "evt-1", entities.CampaignDeleted{Owner: "0xA", LocalID: 2})
	if err := subscriber.handlers[entities.ChangeTypeDeleted](context.Background(), event); !errors.Is(err, handleErr) {
		t.Fatalf("expected handle error, got %v", err)
	}
}
