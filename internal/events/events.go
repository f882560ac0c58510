package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// Event names published by the extraction pipeline.
const (
	AppInit             = "app:init"
	AppExit             = "app:exit"
	ConfigChanged       = "config:changed"
	FileLoaded          = "file:loaded"
	FileSaved           = "file:saved"
	ExtractionStarted   = "extraction:started"
	ExtractionProgress  = "extraction:progress"
	ExtractionCompleted = "extraction:completed"
	ExtractionError     = "extraction:error"
)

// Event is one notification. Only the fields relevant to the event name
// are set: Path for file events, Current/Total for progress, Count for
// entry totals, Message for errors and completion text.
type Event struct {
	Name    string
	Path    string
	Current int
	Total   int
	Count   int
	Message string
}

// Handler receives published events. Handlers run synchronously on the
// publisher's goroutine; a panic in one handler is recovered and logged
// without affecting other handlers or the publisher.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is a synchronous publish/subscribe hub keyed by event name.
type Bus struct {
	mu   sync.RWMutex
	log  zerolog.Logger
	next int
	subs map[string][]subscription
}

// NewBus creates an empty bus logging recovered handler panics to log.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		log:  log,
		subs: map[string][]subscription{},
	}
}

// Subscribe registers h for events named name, returning a cancel func
// that removes the registration. Handlers for a name run in subscription
// order.
func (b *Bus) Subscribe(name string, h Handler) (cancel func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[name]
		for i, s := range list {
			if s.id == id {
				b.subs[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers e to every handler subscribed to e.Name.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[e.Name]))
	copy(list, b.subs[e.Name])
	b.mu.RUnlock()

	for _, s := range list {
		b.call(s.fn, e)
	}
}

func (b *Bus) call(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn().Str("event", e.Name).Interface("panic", r).Msg("event handler panicked")
		}
	}()
	h(e)
}
