package vpi

import (
	"iter"

	"github.com/wippyai/sim-vpi/errors"
)

// ObjectChildrenIterator is a one-shot, non-restartable sequence of objects
// produced by vpi_iterate/vpi_scan.
//
// The iterator keeps the cursor returned by vpi_iterate for its whole life and
// passes that same cursor to every scan. Handles it yields belong to the
// caller and are never fed back into scan.
//
// A failing scan ends the sequence. The translated error is kept and
// returned by Err.
type ObjectChildrenIterator struct {
	s      *Session
	cursor RawHandle
	err    error
	typ    ObjectType
}

// IterateRoots starts an iteration over top-level objects of type t.
func (s *Session) IterateRoots(t ObjectType) (*ObjectChildrenIterator, error) {
	return s.iterate(nil, t)
}

// Iterate starts an iteration over the children of parent with type t.
func (s *Session) Iterate(parent *ObjectHandle, t ObjectType) (*ObjectChildrenIterator, error) {
	if parent == nil {
		return nil, errors.InvalidInput(errors.OpIterate, "nil parent; use IterateRoots")
	}
	return s.iterate(parent, t)
}

func (s *Session) iterate(parent *ObjectHandle, t ObjectType) (*ObjectChildrenIterator, error) {
	s.guard.Check("Session.Iterate")
	var ref RawHandle
	if parent != nil {
		ref = parent.raw
	}
	s.call(errors.OpIterate)
	cursor := s.native.Iterate(t.Code(), ref)
	if err := s.lastError(errors.OpIterate); err != nil {
		return nil, err
	}
	// A null cursor means no matching objects: the iterator starts exhausted.
	return &ObjectChildrenIterator{s: s, cursor: cursor, typ: t}, nil
}

// Type returns the object type being enumerated.
func (it *ObjectChildrenIterator) Type() ObjectType {
	return it.typ
}

// Next returns the next object, or false once the sequence has ended. After
// the first false every later call returns false without a native call.
func (it *ObjectChildrenIterator) Next() (*ObjectHandle, bool) {
	it.s.guard.Check("ObjectChildrenIterator.Next")
	if it.cursor == 0 {
		return nil, false
	}

	it.s.call(errors.OpScan)
	raw := it.s.native.Scan(it.cursor)
	if err := it.s.lastError(errors.OpScan); err != nil {
		it.err = err
		it.cursor = 0
		return nil, false
	}
	if raw == 0 {
		// The simulator frees the cursor when a scan returns null.
		it.cursor = 0
		return nil, false
	}
	return it.s.fromRaw(raw), true
}

// Exhausted reports whether the sequence has ended.
func (it *ObjectChildrenIterator) Exhausted() bool {
	return it.cursor == 0
}

// Err returns the scan error that ended the sequence, if any.
func (it *ObjectChildrenIterator) Err() error {
	return it.err
}

// All adapts the iterator to a range-over-func sequence. Ranging consumes
// the iterator.
func (it *ObjectChildrenIterator) All() iter.Seq[*ObjectHandle] {
	return func(yield func(*ObjectHandle) bool) {
		for {
			h, ok := it.Next()
			if !ok || !yield(h) {
				return
			}
		}
	}
}

// Collect drains the iterator into a slice and returns Err.
func (it *ObjectChildrenIterator) Collect() ([]*ObjectHandle, error) {
	var out []*ObjectHandle
	for h := range it.All() {
		out = append(out, h)
	}
	return out, it.err
}
