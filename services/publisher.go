package services

import (
	"sync"

	"github.com/Dosada05/tournament-manager/brackets"
)

// Publisher delivers realtime events to subscribers of a tournament.
// brackets.Hub implements it.
type Publisher interface {
	Publish(event brackets.Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(brackets.Event) {}

// RecordingPublisher keeps every published event in order.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []brackets.Event
}

func (p *RecordingPublisher) Publish(event brackets.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *RecordingPublisher) Events() []brackets.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]brackets.Event, len(p.events))
	copy(out, p.events)
	return out
}
