// Package event is the in-process domain event bus.
//
// Services fire "order.created", "payment.confirmed" and
// "request.resolved"; the server registers listeners at boot. Listeners
// must not assume ordering between each other.
package event

import "sync"

// Listener receives the payload the firing service attached.
type Listener func(payload interface{})

type bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

var defaultBus = &bus{listeners: map[string][]Listener{}}

func (b *bus) snapshot(name string) []Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()
	registered := b.listeners[name]
	if len(registered) == 0 {
		return nil
	}
	out := make([]Listener, len(registered))
	copy(out, registered)
	return out
}

// Listen registers a listener for the named event.
func Listen(name string, l Listener) {
	defaultBus.mu.Lock()
	defer defaultBus.mu.Unlock()
	defaultBus.listeners[name] = append(defaultBus.listeners[name], l)
}

// Fire invokes every listener for the event in the caller's goroutine.
func Fire(name string, payload interface{}) {
	for _, l := range defaultBus.snapshot(name) {
		l(payload)
	}
}

// FireAsync invokes each listener in its own goroutine and returns
// immediately.
func FireAsync(name string, payload interface{}) {
	for _, l := range defaultBus.snapshot(name) {
		go l(payload)
	}
}

// Flush drops every registered listener. Tests use this between cases.
func Flush() {
	defaultBus.mu.Lock()
	defer defaultBus.mu.Unlock()
	defaultBus.listeners = map[string][]Listener{}
}
