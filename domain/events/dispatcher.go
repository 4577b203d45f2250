package events

import (
	"sync"
)

// Handler receives a published domain event
type Handler func(event DomainEvent)

// wildcard subscribes a handler to every event type
const wildcard = "*"

// Dispatcher fans domain events out to in-process subscribers keyed by event
// type. Handlers run synchronously on the publisher's goroutine, in
// registration order.
type Dispatcher struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

// NewDispatcher creates a new dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for one event type
func (d *Dispatcher) Subscribe(eventType string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// SubscribeAll registers a handler for every event type
func (d *Dispatcher) SubscribeAll(handler Handler) {
	d.Subscribe(wildcard, handler)
}

// Publish delivers events to their subscribers
func (d *Dispatcher) Publish(evts ...DomainEvent) {
	for _, event := range evts {
		d.mu.RLock()
		specific := d.handlers[event.GetEventType()]
		all := d.handlers[wildcard]
		d.mu.RUnlock()

		for _, h := range specific {
			h(event)
		}
		for _, h := range all {
			h(event)
		}
	}
}

// Clear removes every handler for an event type
func (d *Dispatcher) Clear(eventType string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.handlers, eventType)
}
