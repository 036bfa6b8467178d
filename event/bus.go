// Package event fans game-over notifications out to presentation layers.
package event

import (
	"log"
	"sync"

	"github.com/hoshinonyaruko/sky-node-escape/structs"
)

// DefaultBuffer is the per-subscriber queue length used when Subscribe gets a non-positive size.
const DefaultBuffer = 8

// Bus delivers GameOverEvents to every subscriber without blocking the publisher.
// A subscriber whose queue is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan structs.GameOverEvent
	nextID int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan structs.GameOverEvent)}
}

// Subscribe registers a listener. The returned cancel func unregisters it and closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan structs.GameOverEvent, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan structs.GameOverEvent, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish hands ev to every subscriber whose queue has room.
func (b *Bus) Publish(ev structs.GameOverEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("event: subscriber %d is full, dropped gameover score=%d", id, ev.Score)
		}
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
