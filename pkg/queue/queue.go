// Package queue runs background jobs for the Chefhut backend.
//
// A job is any type with a Handle() error method, registered once at boot
// under its type name and dispatched as JSON:
//
//	queue.Register("jobs.ReconcilePaymentJob", func() queue.Job { return &jobs.ReconcilePaymentJob{} })
//	queue.Dispatch(jobs.ReconcilePaymentJob{SessionID: sid})
//
// Jobs travel through a Driver. The in-memory driver serves single-process
// deployments and tests; the Redis driver survives restarts and fan-outs
// across worker processes.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/chefhut/pkg/logger"
	"github.com/shashiranjanraj/chefhut/pkg/metrics"
)

// Job is a unit of background work.
type Job interface {
	Handle() error
}

// Driver moves serialized envelopes between dispatchers and workers.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob records one job that exhausted its retries.
type FailedJob struct {
	Job      Job
	Err      error
	FailedAt time.Time
	Attempts int
}

// envelope is the wire format: the registered type name plus the job's own
// JSON fields.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job-type registry and the failed-job log.
// The package-level functions operate on a single default Manager.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	driver:   NewMemoryDriver(),
	registry: map[string]func() Job{},
	maxRetry: 3,
}

// Register binds a job type name to its constructor so workers can
// deserialize payloads. Call once per type at boot.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

// SetDriver swaps the transport, e.g. to Redis when it is available.
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// SetMaxRetry changes the per-job attempt budget.
func SetMaxRetry(n int) { defaultManager.maxRetry = n }

// Dispatch serializes job and pushes it for the next free worker.
func Dispatch(job Job) error {
	typeName := fmt.Sprintf("%T", job)

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", typeName, err)
	}
	raw, err := json.Marshal(envelope{Type: typeName, Payload: body})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}
	return defaultManager.currentDriver().Push(raw)
}

// DispatchAfter pushes job once delay has elapsed. The delay rides on a
// goroutine, so it does not survive a restart; the Redis driver's delayed
// set covers that case.
func DispatchAfter(job Job, delay time.Duration) {
	go func() {
		time.Sleep(delay)
		if err := Dispatch(job); err != nil {
			logger.Error("queue: delayed dispatch failed", "error", err)
		}
	}()
}

// StartWorkers runs n worker goroutines until ctx is cancelled.
func StartWorkers(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		go defaultManager.runLoop(ctx)
	}
	logger.Info("queue: workers started", "count", n)
}

// FailedJobs returns a snapshot of the in-memory failure log.
func FailedJobs() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()
	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}

func (m *Manager) currentDriver() Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.driver
}

func (m *Manager) runLoop(ctx context.Context) {
	for ctx.Err() == nil {
		raw, err := m.currentDriver().Pop(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			// Transient driver error; pause instead of spinning.
			time.Sleep(500 * time.Millisecond)
		case raw != nil:
			m.process(raw)
		}
	}
}

func (m *Manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		logger.Warn("queue: unregistered job type", "type", env.Type)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal payload", "type", env.Type, "error", err)
		return
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		lastErr = job.Handle()
		if lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Info("queue: job processed", "type", env.Type)
			return
		}
		logger.Warn("queue: job failed, retrying",
			"type", env.Type, "attempt", attempt, "error", lastErr)
		time.Sleep(time.Duration(attempt) * time.Second)
	}

	m.persistFailed(job, env.Type, lastErr, m.maxRetry)
	metrics.RecordQueueJob(env.Type, "failed", start)
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}
