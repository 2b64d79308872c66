package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered typed event bus. Events emitted during tick N
// become visible to handlers in tick N+1, after SwapBuffers rotates the
// buffers at tick start. Emit and Dispatch run on the simulation goroutine;
// only handler registration is guarded.
type Bus struct {
	mu       sync.Mutex // protects handler registration only
	front    map[reflect.Type][]any
	back     map[reflect.Type][]any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{
		front:    make(map[reflect.Type][]any),
		back:     make(map[reflect.Type][]any),
		handlers: make(map[reflect.Type][]any),
	}
}

// Emit queues an event into the back buffer, readable next tick.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.back[t] = append(b.back[t], ev)
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SwapBuffers rotates back→front and clears the new back buffer.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	for k := range b.back {
		b.back[k] = b.back[k][:0]
	}
}

// Dispatch delivers every front-buffer event to its subscribed handlers.
func (b *Bus) Dispatch() {
	for t, events := range b.front {
		handlers := b.handlers[t]
		if len(handlers) == 0 {
			continue
		}
		for _, ev := range events {
			for _, h := range handlers {
				// Subscribe and Emit share the type key, so the call matches.
				reflect.ValueOf(h).Call([]reflect.Value{reflect.ValueOf(ev)})
			}
		}
	}
}
