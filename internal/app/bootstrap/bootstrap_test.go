package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"crowdfund/contexts/crowdfunding/campaign-registry/application/workers"
	"crowdfund/contexts/crowdfunding/campaign-registry/domain/entities"
	"crowdfund/contexts/crowdfunding/campaign-registry/ports"
	"crowdfund/internal/platform/config"
	"crowdfund/internal/platform/messaging"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBuildAPIMemoryBackendRunsUntilCancelled(t *testing.T) {
	app, err := BuildAPIFromConfig(config.Config{
		ServiceName:        "crowdfund",
		HTTPPort:           "0",
		StorageBackend:     config.StorageMemory,
		MaxPageSize:        50,
		OutboxPollInterval: time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("build api failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.Run(ctx)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("api run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("api did not stop after cancel")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildAPIRejectsPostgresWithoutDSN(t *testing.T) {
	_, err := BuildAPIFromConfig(config.Config{StorageBackend: config.StoragePostgres}, nil)
	if err == nil {
		t.Fatalf("expected error without dsn")
	}
}

func TestBuildAPIRejectsUnknownBackend(t *testing.T) {
	_, err := BuildAPIFromConfig(config.Config{StorageBackend: "redis"}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
	}
	for input, want := range cases {
		if got := normalizeAddr(input); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", input, got, want)
		}
	}
}

type pendingOutbox struct {
	mu        sync.Mutex
	rows      []ports.OutboxMessage
	published map[string]bool
}

func (o *pendingOutbox) ListPendingOutbox(_ context.Context, _ int) ([]ports.OutboxMessage, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending := make([]ports.OutboxMessage, 0, len(o.rows))
	for _, row := range o.rows {
		if !o.published[row.OutboxID] {
			pending = append(pending, row)
		}
	}
	return pending, nil
}

func (o *pendingOutbox) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published[outboxID] = true
	return nil
}

func (o *pendingOutbox) isPublished(outboxID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.published[outboxID]
}

func TestWorkerDeliversRowsPendingAtStartup(t *testing.T) {
	data, err := json.Marshal(entities.CampaignCreated{Owner: "0xA", LocalID: 1, Name: "a1"})
	if err != nil {
		t.Fatalf("marshal change: %v", err)
	}
	payload, err := json.Marshal(ports.EventEnvelope{
		EventID:      "evt-1",
		EventType:    entities.ChangeTypeCreated,
		PartitionKey: "0xA",
		Data:         data,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	outbox := &pendingOutbox{
		rows:      []ports.OutboxMessage{{OutboxID: "row-1", EventType: entities.ChangeTypeCreated, Payload: payload}},
		published: map[string]bool{},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := messaging.NewBus(logger)
	received := make(chan entities.Change, 1)
	worker := &WorkerApp{
		bus: bus,
		outboxRelay: workers.OutboxRelay{
			Outbox:    outbox,
			Publisher: bus,
			Logger:    logger,
		},
		changeFeed: workers.ChangeFeedConsumer{
			Subscriber: bus,
			Handle: func(_ context.Context, change entities.Change) error {
				received <- change
				return nil
			},
			Logger: logger,
		},
		pollInterval: time.Hour,
		logger:       logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	select {
	case change := <-received:
		if change.PartitionOwner() != "0xA" || change.ChangeType() != entities.ChangeTypeCreated {
			t.Fatalf("unexpected change %+v", change)
		}
	case <-time.After(5 * time.Second):
		cancel()
		<-done
		t.Fatalf("row pending at startup never reached the change feed")
	}
	deadline := time.Now().Add(5 * time.Second)
	for !outbox.isPublished("row-1") {
		if time.Now().After(deadline) {
			cancel()
			<-done
			t.Fatalf("expected delivered row to be marked published")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("worker run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not stop after cancel")
	}
}
