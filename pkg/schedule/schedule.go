// Package schedule runs recurring tasks inside the Chefhut process.
//
// Tasks are registered through a fluent builder and dispatched by a
// background loop:
//
//	schedule.Every(5).Minutes().Name("reconcile-payments").WithoutOverlapping().Run(sweep)
//	schedule.Cron("0 3 * * *").Name("nightly-backup").Run(backup)
//	schedule.Start(ctx)
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/chefhut/pkg/logger"
)

// Task is a scheduled function. It runs in its own goroutine.
type Task func()

// task is one registered entry. Either interval or cronExpr is set, never
// both.
type task struct {
	mu       sync.Mutex
	name     string
	interval time.Duration
	cronExpr string
	fn       Task
	before   Task
	after    Task
	lastRun  time.Time
	active   bool
	exclusive bool
}

type scheduler struct {
	mu    sync.Mutex
	tasks []*task
}

var defaultScheduler = &scheduler{}

// Builder configures one task before Run registers it.
type Builder struct {
	t *task
}

// Every begins an interval schedule of n units; follow with Seconds,
// Minutes or Hours.
func Every(n int) IntervalUnit { return IntervalUnit{n: n} }

// EveryMinute is Every(1).Minutes().
func EveryMinute() *Builder { return Every(1).Minutes() }

// Hourly is Every(1).Hours().
func Hourly() *Builder { return Every(1).Hours() }

// Daily is Every(24).Hours().
func Daily() *Builder { return Every(24).Hours() }

// Cron begins a schedule from a 5-field expression
// (minute hour day-of-month month day-of-week).
func Cron(expr string) *Builder {
	return &Builder{t: &task{cronExpr: expr}}
}

// IntervalUnit finishes an Every(n) call with a unit.
type IntervalUnit struct{ n int }

func (u IntervalUnit) Seconds() *Builder {
	return &Builder{t: &task{interval: time.Duration(u.n) * time.Second}}
}

func (u IntervalUnit) Minutes() *Builder {
	return &Builder{t: &task{interval: time.Duration(u.n) * time.Minute}}
}

func (u IntervalUnit) Hours() *Builder {
	return &Builder{t: &task{interval: time.Duration(u.n) * time.Hour}}
}

// Name sets the identifier used in logs and the CLI listing.
func (b *Builder) Name(name string) *Builder {
	b.t.name = name
	return b
}

// WithoutOverlapping skips a tick while the previous run is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.t.exclusive = true
	return b
}

// Before runs fn ahead of each execution.
func (b *Builder) Before(fn Task) *Builder {
	b.t.before = fn
	return b
}

// After runs fn once each execution finishes, panics included.
func (b *Builder) After(fn Task) *Builder {
	b.t.after = fn
	return b
}

// Run registers the task. Nothing executes until Start is called.
func (b *Builder) Run(fn Task) {
	b.t.fn = fn

	defaultScheduler.mu.Lock()
	defer defaultScheduler.mu.Unlock()
	if b.t.name == "" {
		b.t.name = fmt.Sprintf("task-%d", len(defaultScheduler.tasks)+1)
	}
	defaultScheduler.tasks = append(defaultScheduler.tasks, b.t)
}

// Start launches the dispatch loop; it stops when ctx is cancelled.
func Start(ctx context.Context) {
	go defaultScheduler.loop(ctx)
	logger.Info("schedule: scheduler started")
}

// List describes the registered tasks for the CLI.
func List() []string {
	defaultScheduler.mu.Lock()
	defer defaultScheduler.mu.Unlock()

	out := make([]string, 0, len(defaultScheduler.tasks))
	for _, t := range defaultScheduler.tasks {
		when := t.cronExpr
		if when == "" {
			when = "every " + t.interval.String()
		}
		out = append(out, fmt.Sprintf("%s  [%s]", t.name, when))
	}
	return out
}

func (s *scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			s.mu.Lock()
			due := make([]*task, 0, len(s.tasks))
			for _, t := range s.tasks {
				if t.due(now) {
					due = append(due, t)
				}
			}
			s.mu.Unlock()

			for _, t := range due {
				t.fire()
			}
		}
	}
}

func (t *task) due(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cronExpr != "" {
		// The loop ticks every second but cron is minute-granular;
		// a matching minute must fire exactly once.
		if !t.lastRun.IsZero() && now.Sub(t.lastRun) < time.Minute {
			return false
		}
		return cronMatches(t.cronExpr, now)
	}
	return t.lastRun.IsZero() || now.Sub(t.lastRun) >= t.interval
}

func (t *task) fire() {
	t.mu.Lock()
	if t.exclusive && t.active {
		t.mu.Unlock()
		logger.Warn("schedule: previous run still going, skipping", "task", t.name)
		return
	}
	t.active = true
	t.lastRun = time.Now()
	t.mu.Unlock()

	go func() {
		defer func() {
			t.mu.Lock()
			t.active = false
			t.mu.Unlock()
			if r := recover(); r != nil {
				logger.Error("schedule: task panicked", "task", t.name, "panic", r)
			}
			if t.after != nil {
				t.after()
			}
		}()

		if t.before != nil {
			t.before()
		}
		logger.Info("schedule: running task", "task", t.name)
		t.fn()
	}()
}

// cronMatches evaluates a 5-field expression against t. Each field accepts
// "*", an exact number, "*/step" or "lo-hi".
func cronMatches(expr string, now time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	values := [5]int{
		now.Minute(), now.Hour(), now.Day(), int(now.Month()), int(now.Weekday()),
	}
	for i, field := range fields {
		if !fieldMatches(field, values[i]) {
			return false
		}
	}
	return true
}

func fieldMatches(field string, val int) bool {
	switch {
	case field == "*":
		return true
	case strings.HasPrefix(field, "*/"):
		step, err := strconv.Atoi(field[2:])
		return err == nil && step > 0 && val%step == 0
	case strings.Contains(field, "-"):
		lo, hi, ok := splitRange(field)
		return ok && val >= lo && val <= hi
	default:
		n, err := strconv.Atoi(field)
		return err == nil && n == val
	}
}

func splitRange(field string) (lo, hi int, ok bool) {
	parts := strings.SplitN(field, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(parts[0])
	hi, err2 := strconv.Atoi(parts[1])
	return lo, hi, err1 == nil && err2 == nil
}
