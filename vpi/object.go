package vpi

import (
	"fmt"
	"strings"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/registry"
)

// ObjectHandle owns one non-null native handle.
//
// Handles are never released explicitly. Freeing native handles is
// host-dependent and unreliable across simulators, so disposal is left to
// the simulator's own reclamation; dropping an ObjectHandle does nothing.
type ObjectHandle struct {
	s   *Session
	raw RawHandle
	// slot is the registry entry of a callback registration, zero otherwise.
	slot registry.Handle
}

// Raw returns the native handle.
func (h *ObjectHandle) Raw() RawHandle {
	return h.raw
}

// Session returns the session the handle belongs to.
func (h *ObjectHandle) Session() *Session {
	return h.s
}

// IsCallback reports whether the handle represents a live callback
// registration.
func (h *ObjectHandle) IsCallback() bool {
	return h.slot != 0
}

func (h *ObjectHandle) String() string {
	return fmt.Sprintf("vpi.ObjectHandle(%#x)", uintptr(h.raw))
}

// PropertyBool queries an integer property that must be boolean valued. Any
// native result other than 0 or 1 means the property is not boolean and is
// reported as an unknown simulator error.
func (h *ObjectHandle) PropertyBool(p ObjectProperty) (bool, error) {
	v, err := h.PropertyInt32(p)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, errors.New(errors.OpGet, errors.KindUnknownSimulator).
		Value(v).
		Detail("property %s returned %d, not a boolean", p, v).
		Build()
}

// PropertyInt32 queries an integer property with vpi_get.
func (h *ObjectHandle) PropertyInt32(p ObjectProperty) (int32, error) {
	h.s.guard.Check("ObjectHandle.PropertyInt32")
	h.s.call(errors.OpGet)
	v := h.s.native.Get(p.Code(), h.raw)
	if err := h.s.lastError(errors.OpGet); err != nil {
		return 0, err
	}
	return v, nil
}

// PropertyInt64 queries an integer property with vpi_get64.
func (h *ObjectHandle) PropertyInt64(p ObjectProperty) (int64, error) {
	h.s.guard.Check("ObjectHandle.PropertyInt64")
	h.s.call(errors.OpGet)
	v := h.s.native.Get64(p.Code(), h.raw)
	if err := h.s.lastError(errors.OpGet); err != nil {
		return 0, err
	}
	return v, nil
}

// PropertyString queries a string property with vpi_get_str. The returned
// string is copied: the native buffer is only valid until the next call.
func (h *ObjectHandle) PropertyString(p ObjectProperty) (string, error) {
	h.s.guard.Check("ObjectHandle.PropertyString")
	h.s.call(errors.OpGetString)
	b := h.s.native.GetStr(p.Code(), h.raw)
	if err := h.s.lastError(errors.OpGetString); err != nil {
		return "", err
	}
	if b == nil {
		return "", errors.UnknownSimulator(errors.OpGetString, fmt.Sprintf("property %s returned a null string", p))
	}
	return string(b), nil
}

// Type returns the object's category.
func (h *ObjectHandle) Type() (ObjectType, error) {
	code, err := h.PropertyInt32(PropType)
	if err != nil {
		return 0, err
	}
	t, err := DecodeObjectType(code)
	if err != nil {
		return 0, errors.EnumConversion(errors.OpGet, code, "ObjectType")
	}
	return t, nil
}

// Name returns the vpiName property.
func (h *ObjectHandle) Name() (string, error) {
	return h.PropertyString(PropName)
}

// FullName returns the vpiFullName property.
func (h *ObjectHandle) FullName() (string, error) {
	return h.PropertyString(PropFullName)
}

// Value reads the object's current value in the requested format. The
// simulator may reject a format that does not apply to the object.
func (h *ObjectHandle) Value(format ValueFormat) (Value, error) {
	h.s.guard.Check("ObjectHandle.Value")
	raw := RawValue{Format: format.Code()}
	h.s.call(errors.OpValue)
	h.s.native.GetValue(h.raw, &raw)
	if err := h.s.lastError(errors.OpValue); err != nil {
		return Value{}, err
	}
	return decodeValue(errors.OpValue, &raw)
}

// Children starts an iteration over the children of type t.
func (h *ObjectHandle) Children(t ObjectType) (*ObjectChildrenIterator, error) {
	return h.s.Iterate(h, t)
}

// Related follows a one-to-one relationship, such as ObjModule for the
// enclosing module. It returns nil without error when there is none.
func (h *ObjectHandle) Related(t ObjectType) (*ObjectHandle, error) {
	h.s.guard.Check("ObjectHandle.Related")
	h.s.call(errors.OpHandle)
	raw := h.s.native.Handle(t.Code(), h.raw)
	if err := h.s.lastError(errors.OpHandle); err != nil {
		return nil, err
	}
	if raw == 0 {
		return nil, nil
	}
	return h.s.fromRaw(raw), nil
}

// Compare asks the simulator whether both handles denote the same object.
// Two handles with the same raw value are not assumed equal, nor are
// different raw values assumed distinct.
func (h *ObjectHandle) Compare(other *ObjectHandle) (bool, error) {
	h.s.guard.Check("ObjectHandle.Compare")
	if other == nil {
		return false, errors.InvalidInput(errors.OpCompare, "nil handle")
	}
	h.s.call(errors.OpCompare)
	eq := h.s.native.CompareObjects(h.raw, other.raw)
	if err := h.s.lastError(errors.OpCompare); err != nil {
		return false, err
	}
	return eq, nil
}

// Equal is Compare for callers that cannot handle an error. It panics if the
// comparison fails, including for a nil other.
func (h *ObjectHandle) Equal(other *ObjectHandle) bool {
	eq, err := h.Compare(other)
	if err != nil {
		panic(err)
	}
	return eq
}

// HandleByName looks up an object by hierarchical name. A nil scope searches
// from the top of the hierarchy. It returns nil without error when nothing
// matches.
func (s *Session) HandleByName(name string, scope *ObjectHandle) (*ObjectHandle, error) {
	s.guard.Check("Session.HandleByName")
	if strings.IndexByte(name, 0) >= 0 {
		return nil, errors.InvalidInput(errors.OpHandle, "name contains a NUL byte")
	}
	var ref RawHandle
	if scope != nil {
		ref = scope.raw
	}
	s.call(errors.OpHandle)
	raw := s.native.HandleByName(name, ref)
	if err := s.lastError(errors.OpHandle); err != nil {
		return nil, err
	}
	if raw == 0 {
		return nil, nil
	}
	return s.fromRaw(raw), nil
}
