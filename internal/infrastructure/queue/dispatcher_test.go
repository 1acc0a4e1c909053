package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/youcode/ebanking-api/internal/core/domain"
)

type captureService struct {
	processed chan domain.AuditEvent
}

func (s *captureService) Process(_ context.Context, event domain.AuditEvent) error {
	s.processed <- event
	return nil
}

func (s *captureService) RecentByActor(_ context.Context, _ string, _ int64) ([]domain.AuditEvent, error) {
	return nil, nil
}

func TestDispatcher_RecordDeliversToWorker(t *testing.T) {
	svc := &captureService{processed: make(chan domain.AuditEvent, 8)}
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AuditEvent{
		Actor:     "alice",
		Action:    domain.AuditLoginSucceeded,
		Timestamp: time.Now(),
	})

	select {
	case got := <-svc.processed:
		if got.Actor != "alice" || got.Action != domain.AuditLoginSucceeded {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event was not processed")
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, &captureService{processed: make(chan domain.AuditEvent, 1)}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_ShardIndexIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, &captureService{processed: make(chan domain.AuditEvent, 1)}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= len(d.workers) {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_SameActorKeepsOrder(t *testing.T) {
	svc := &captureService{processed: make(chan domain.AuditEvent, 16)}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []string{
		domain.AuditUserRegistered,
		domain.AuditLoginFailed,
		domain.AuditLoginSucceeded,
		domain.AuditPasswordChanged,
	}
	for _, action := range actions {
		d.Record(domain.AuditEvent{Actor: "alice", Action: action, Timestamp: time.Now()})
	}

	for _, want := range actions {
		select {
		case got := <-svc.processed:
			if got.Action != want {
				t.Fatalf("expected %s, got %s", want, got.Action)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}
