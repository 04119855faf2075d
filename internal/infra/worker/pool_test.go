//go:build !integration

package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	log := zerolog.Nop()
	p := NewPool(2, &log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	var mu sync.Mutex
	done := make(chan struct{})
	ran := 0
	const total = 5
	for i := 0; i < total; i++ {
		err := p.Submit(func(ctx context.Context) error {
			mu.Lock()
			ran++
			if ran == total {
				close(done)
			}
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("tasks did not finish: ran %d of %d", ran, total)
	}
}

func TestPoolRejectsNilTask(t *testing.T) {
	log := zerolog.Nop()
	p := NewPool(1, &log)
	if err := p.Submit(nil); err == nil {
		t.Error("Submit(nil) error = nil, want rejection")
	}
}

func TestPoolDropsWhenQueueFull(t *testing.T) {
	log := zerolog.Nop()
	p := NewPool(1, &log)
	// Not started: nothing drains the queue, so it fills at capacity.
	blocker := func(ctx context.Context) error { return nil }

	var dropped int
	for i := 0; i < 16; i++ {
		if err := p.Submit(blocker); err != nil {
			dropped++
		}
	}
	if dropped == 0 {
		t.Error("expected submissions beyond queue capacity to be dropped")
	}
}
