package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingJob struct {
	Name string `json:"name"`
}

var handled atomic.Int32

func (j countingJob) Handle() error {
	handled.Add(1)
	return nil
}

type failingJob struct{}

func (j failingJob) Handle() error { return errAlways }

var errAlways = context.DeadlineExceeded

func TestDispatchAndProcess(t *testing.T) {
	SetDriver(NewMemoryDriver())
	Register("queue.countingJob", func() Job { return &countingJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 2)

	if err := Dispatch(countingJob{Name: "a"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := Dispatch(countingJob{Name: "b"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for handled.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("jobs not processed, handled=%d", handled.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFailedJobRecorded(t *testing.T) {
	SetDriver(NewMemoryDriver())
	SetMaxRetry(1)
	defer SetMaxRetry(3)
	Register("queue.failingJob", func() Job { return &failingJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartWorkers(ctx, 1)

	if err := Dispatch(failingJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if len(FailedJobs()) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("failed job not recorded")
		}
		time.Sleep(10 * time.Millisecond)
	}

	fj := FailedJobs()[0]
	if fj.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", fj.Attempts)
	}
	if fj.Err == nil {
		t.Fatal("expected error on failed job")
	}
}

func TestUnregisteredTypeIgnored(t *testing.T) {
	m := &Manager{registry: map[string]func() Job{}, maxRetry: 1, driver: NewMemoryDriver()}
	// Should not panic.
	m.process([]byte(`{"type":"nope","payload":{}}`))
}
