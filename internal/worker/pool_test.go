package worker

import (
	"testing"
	"time"
)

func TestPoolWorkerRunsJobAndGoesIdleAgain(t *testing.T) {
	p := newTurnPool(1, 1, time.Minute)

	for i := 0; i < 3; i++ {
		done := make(chan struct{})
		ch := p.acquire()
		ch <- Job{ClientID: "192.0.2.10", Run: func() { close(done) }}
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("job %d did not run", i)
		}
	}
}

func TestPoolGrowsUpToMax(t *testing.T) {
	p := newTurnPool(1, 3, time.Minute)

	gate := make(chan struct{})
	started := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		ch := p.acquire()
		ch <- Job{ClientID: "192.0.2.11", Run: func() {
			started <- struct{}{}
			<-gate
		}}
	}
	for i := 0; i < 3; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatalf("worker %d never started its job", i)
		}
	}
	close(gate)

	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if running != 3 {
		t.Fatalf("expected pool to grow to 3 workers, got %d", running)
	}
}
