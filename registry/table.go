package registry

import (
	"sync"
)

// Table maps handles to values with lifecycle observers.
type Table[T any] struct {
	backend   *LocalBackend[T]
	observers map[int]Observer
	nextObs   int
	obsMu     sync.RWMutex
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		backend:   NewLocalBackend[T](),
		observers: make(map[int]Observer),
	}
}

// Insert adds a value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	handle, err := t.backend.Create(value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventInserted,
		Handle: handle,
		Value:  value,
	})

	return handle, nil
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	return t.backend.Get(handle)
}

// Remove drops a value and returns (value, true) if it was live.
func (t *Table[T]) Remove(handle Handle) (T, bool) {
	value, ok := t.backend.Drop(handle)
	if !ok {
		return value, false
	}

	if d, ok := any(value).(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventRemoved,
		Handle: handle,
		Value:  value,
	})

	return value, true
}

// Subscribe adds an observer for lifecycle events and returns a function
// that removes it.
func (t *Table[T]) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()

	id := t.nextObs
	t.nextObs++
	t.observers[id] = o

	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		delete(t.observers, id)
	}
}

// Len returns the number of live values.
func (t *Table[T]) Len() int {
	return t.backend.Len()
}

// Each iterates over all live values.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.backend.Each(fn)
}

// Close reclaims every live value and stops accepting inserts. It returns the
// number of values reclaimed.
func (t *Table[T]) Close() int {
	live := t.backend.Close()
	for _, e := range live {
		if d, ok := any(e.Value).(Dropper); ok {
			d.Drop()
		}
		t.notify(Event{
			Type:   EventReclaimed,
			Handle: e.Handle,
			Value:  e.Value,
		})
	}
	return len(live)
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnRegistryEvent(e)
	}
}
