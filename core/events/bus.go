// Copyright 2025, the Phrasepost contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package events provides the in-process notification bus that replaces the
original site's ad hoc DOM events.

Two delivery modes exist. [Bus.Publish] delivers an event to every current
subscriber, once per publish. [Bus.PublishOnce] delivers at most one event
under a given name for the bus's lifetime; repeated publishes are dropped,
and subscribers that attach after the event fired receive it immediately on
subscription, so initialization order between producers and consumers does
not matter.
*/
package events

import "sync"

// Well-known event names.
const (
	// FragmentsReady fires at most once per document load, after both
	// fragment resolution passes settle, regardless of per-node failures.
	FragmentsReady = "fragments.ready"

	// LanguageChanged fires once per successful language switch. The
	// payload is the new language code.
	LanguageChanged = "language.changed"
)

// Event is a named notification with an optional payload.
type Event struct {
	Name    string
	Payload any
}

// HandlerFunc consumes a published event. Handlers run synchronously on the
// publisher's goroutine and must not block.
type HandlerFunc func(Event)

// Bus is a minimal synchronous publish/subscribe hub. The zero value is not
// ready for use; construct with [NewBus].
type Bus struct {
	mu       sync.Mutex
	handlers map[string][]HandlerFunc
	// sticky holds events published via PublishOnce, keyed by name, so that
	// late subscribers still observe them.
	sticky map[string]Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
		sticky:   make(map[string]Event),
	}
}

// Subscribe registers fn for events published under name.
//
// If an event with that name was already delivered through [Bus.PublishOnce],
// fn is invoked immediately with the recorded event.
func (b *Bus) Subscribe(name string, fn HandlerFunc) {
	b.mu.Lock()
	b.handlers[name] = append(b.handlers[name], fn)
	replay, replayNow := b.sticky[name]
	b.mu.Unlock()

	if replayNow {
		fn(replay)
	}
}

// Publish delivers the event to every subscriber registered at the time of
// the call. Each publish is delivered once to each subscriber.
func (b *Bus) Publish(name string, payload any) {
	b.mu.Lock()
	handlers := append([]HandlerFunc(nil), b.handlers[name]...)
	b.mu.Unlock()

	ev := Event{Name: name, Payload: payload}
	for _, fn := range handlers {
		fn(ev)
	}
}

// PublishOnce delivers the event like [Bus.Publish], but at most once per
// name for the bus's lifetime. It reports whether this call was the one
// that fired.
func (b *Bus) PublishOnce(name string, payload any) bool {
	b.mu.Lock()

	if _, fired := b.sticky[name]; fired {
		b.mu.Unlock()

		return false
	}

	ev := Event{Name: name, Payload: payload}
	b.sticky[name] = ev
	handlers := append([]HandlerFunc(nil), b.handlers[name]...)

	b.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}

	return true
}
