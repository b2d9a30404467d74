package registry

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("registry closed")
	ErrFull   = errors.New("registry full")
)

// LocalBackend is the in-memory slot store behind a Table.
type LocalBackend[T any] struct {
	entries  []slot[T]
	freeList []int
	mu       sync.RWMutex
	closed   bool
}

type slot[T any] struct {
	value T
	gen   uint8
	valid bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend[T any]() *LocalBackend[T] {
	return &LocalBackend[T]{
		entries:  make([]slot[T], 0, 16),
		freeList: make([]int, 0, 4),
	}
}

// Create stores a value and returns its handle.
func (b *LocalBackend[T]) Create(value T) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if n := len(b.freeList); n > 0 {
		idx := b.freeList[n-1]
		b.freeList = b.freeList[:n-1]
		s := &b.entries[idx]
		s.value = value
		s.valid = true
		return makeHandle(idx, s.gen), nil
	}

	if len(b.entries) >= maxEntries {
		return 0, ErrFull
	}
	b.entries = append(b.entries, slot[T]{value: value, valid: true})
	return makeHandle(len(b.entries)-1, 0), nil
}

// lookup returns the live slot for handle. Caller holds mu.
func (b *LocalBackend[T]) lookup(handle Handle) (*slot[T], bool) {
	if handle == 0 {
		return nil, false
	}
	idx := handle.index()
	if idx < 0 || idx >= len(b.entries) {
		return nil, false
	}
	s := &b.entries[idx]
	if !s.valid || s.gen != handle.generation() {
		return nil, false
	}
	return s, true
}

// Get retrieves a value by handle.
func (b *LocalBackend[T]) Get(handle Handle) (T, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var zero T
	s, ok := b.lookup(handle)
	if !ok {
		return zero, false
	}
	return s.value, true
}

// Drop removes a value and returns it.
func (b *LocalBackend[T]) Drop(handle Handle) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var zero T
	s, ok := b.lookup(handle)
	if !ok {
		return zero, false
	}

	value := s.value
	s.value = zero
	s.valid = false
	s.gen++
	b.freeList = append(b.freeList, handle.index())
	return value, true
}

// Close invalidates every handle and returns the values that were live.
func (b *LocalBackend[T]) Close() []Entry[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var live []Entry[T]
	for i := range b.entries {
		s := &b.entries[i]
		if s.valid {
			live = append(live, Entry[T]{Handle: makeHandle(i, s.gen), Value: s.value})
		}
	}

	b.entries = nil
	b.freeList = nil
	return live
}

// Len returns the number of live values.
func (b *LocalBackend[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries) - len(b.freeList)
}

// Each iterates over all live values.
func (b *LocalBackend[T]) Each(fn func(Handle, T) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, s := range b.entries {
		if s.valid {
			if !fn(makeHandle(i, s.gen), s.value) {
				break
			}
		}
	}
}

// Entry is a handle/value pair.
type Entry[T any] struct {
	Value  T
	Handle Handle
}
