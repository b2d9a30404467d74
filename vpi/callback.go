package vpi

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/sim-vpi/errors"
	"github.com/wippyai/sim-vpi/registry"
)

// CallbackEvent is what a callback closure receives on each invocation.
type CallbackEvent struct {
	// Object is the object the event concerns, nil when the simulator
	// reported none.
	Object *ObjectHandle
	// Value is the decoded value for value-carrying reasons, nil otherwise.
	Value  *Value
	Time   Time
	Reason CallbackReason
	Index  int32
}

// CallbackFunc is a registered closure. It may run any number of times, and
// state it captures persists between runs.
type CallbackFunc func(CallbackEvent)

// registration is the registry entry a trampoline invocation resolves to.
// The native descriptor's user data holds the entry's registry handle, not
// its address.
type registration struct {
	fn     CallbackFunc
	raw    RawHandle
	id     uuid.UUID
	reason CallbackReason
}

// Drop releases the closure once the registration leaves the registry, so
// state it captured is not kept alive by a stale slot.
func (r *registration) Drop() {
	r.fn = nil
}

// CallbackBuilder accumulates a callback registration.
type CallbackBuilder struct {
	s      *Session
	fn     CallbackFunc
	obj    *ObjectHandle
	time   *Time
	format ValueFormat
	reason CallbackReason
	index  int32
}

// NewCallback starts a registration for the given reason.
func (s *Session) NewCallback(reason CallbackReason) *CallbackBuilder {
	return &CallbackBuilder{s: s, reason: reason}
}

// Call sets the closure. Only the last closure set is kept.
func (b *CallbackBuilder) Call(fn CallbackFunc) *CallbackBuilder {
	b.fn = fn
	return b
}

// Object sets the object to watch.
func (b *CallbackBuilder) Object(h *ObjectHandle) *CallbackBuilder {
	b.obj = h
	return b
}

// At sets the time specification.
func (b *CallbackBuilder) At(t Time) *CallbackBuilder {
	b.time = &t
	return b
}

// WithValue asks the simulator to report the object's value in format with
// every event.
func (b *CallbackBuilder) WithValue(format ValueFormat) *CallbackBuilder {
	b.format = format
	return b
}

// Index sets the index field of the descriptor.
func (b *CallbackBuilder) Index(i int32) *CallbackBuilder {
	b.index = i
	return b
}

// Register registers the callback during the run phase. Configuration-phase
// registrations go through Startup.Register.
func (b *CallbackBuilder) Register() (*ObjectHandle, error) {
	b.s.guard.Check("CallbackBuilder.Register")
	return b.s.register(b)
}

func (b *CallbackBuilder) validate() error {
	if b.fn == nil {
		return errors.InvalidCallbackConfig("no callback closure supplied")
	}
	if _, ok := reasonNames[b.reason]; !ok {
		return errors.New(errors.OpRegister, errors.KindInvalidCallbackConfig).
			Value(int32(b.reason)).
			Detail("unknown callback reason %d", int32(b.reason)).
			Build()
	}
	if b.reason.timeDriven() {
		if b.time == nil {
			return errors.InvalidCallbackConfig("reason %s requires a time", b.reason)
		}
		if _, ok := timeKindNames[b.time.Kind]; !ok {
			return errors.InvalidCallbackConfig("invalid time kind %d", int32(b.time.Kind))
		}
		if b.time.Kind == TimeSuppress && (b.reason == ReasonAfterDelay || b.reason == ReasonAtStartOfSimTime) {
			return errors.InvalidCallbackConfig("reason %s cannot use a suppressed time", b.reason)
		}
	}
	if b.reason.objectDriven() && b.obj == nil {
		return errors.InvalidCallbackConfig("reason %s requires an object", b.reason)
	}
	if b.format != 0 {
		if _, ok := formatNames[b.format]; !ok {
			return errors.InvalidCallbackConfig("invalid value format %d", int32(b.format))
		}
	}
	return nil
}

// register performs the native registration. Guard checks are the caller's.
func (s *Session) register(b *CallbackBuilder) (*ObjectHandle, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	reg := &registration{fn: b.fn, id: uuid.New(), reason: b.reason}
	slot, err := s.callbacks.Insert(reg)
	if err != nil {
		return nil, errors.Wrap(errors.OpRegister, errors.KindOther, err, "reserve callback slot")
	}

	data := &CallbackData{
		Reason:   b.reason.Code(),
		Routine:  s.trampoline,
		Index:    b.index,
		UserData: uintptr(slot),
	}
	if b.obj != nil {
		data.Obj = b.obj.raw
	}
	if b.time != nil {
		rt := b.time.raw()
		data.Time = &rt
	}
	if b.format != 0 {
		data.Value = &RawValue{Format: b.format.Code()}
	}

	s.call(errors.OpRegister)
	raw := s.native.RegisterCallback(data)
	if err := s.lastError(errors.OpRegister); err != nil {
		s.callbacks.Remove(slot)
		return nil, err
	}
	if raw == 0 {
		s.callbacks.Remove(slot)
		s.metrics.NativeError(string(errors.OpRegister), string(errors.KindUnknownSimulator))
		return nil, errors.UnknownSimulator(errors.OpRegister, "simulator returned a null registration handle")
	}
	reg.raw = raw

	s.logger.Debug("callback registered",
		zap.Stringer("reason", b.reason),
		zap.Uint32("slot", uint32(slot)),
		zap.Stringer("registration", reg.id))

	return &ObjectHandle{s: s, raw: raw, slot: slot}, nil
}

// RemoveCallback removes a callback registration from the simulator and then
// releases its registry slot. The handle must come from Register.
func (h *ObjectHandle) RemoveCallback() error {
	s := h.s
	s.guard.Check("ObjectHandle.RemoveCallback")
	if h.slot == 0 {
		return errors.InvalidInput(errors.OpRemove, "handle is not a live callback registration")
	}

	s.call(errors.OpRemove)
	if !s.native.RemoveCallback(h.raw) {
		return s.failure(errors.OpRemove, "simulator refused to remove the callback")
	}
	if err := s.lastError(errors.OpRemove); err != nil {
		return err
	}

	if reg, ok := s.callbacks.Remove(h.slot); ok {
		s.logger.Debug("callback removed",
			zap.Stringer("reason", reg.reason),
			zap.Uint32("slot", uint32(h.slot)),
			zap.Stringer("registration", reg.id))
	}
	h.slot = 0
	return nil
}

// trampoline is the Routine every registration is made with. It resolves the
// registry slot carried in the descriptor's user data and runs the closure.
// Stale or reclaimed slots are ignored. One-shot registrations release their
// slot after running, since the simulator retires them.
func (s *Session) trampoline(data *CallbackData) int32 {
	slot := registry.Handle(data.UserData)
	reg, ok := s.callbacks.Get(slot)
	if !ok {
		s.logger.Warn("callback fired for unknown registration",
			zap.Uint32("slot", uint32(slot)),
			zap.Int32("reason", data.Reason))
		return 0
	}

	ev := CallbackEvent{Reason: reg.reason, Index: data.Index}
	if r, err := DecodeCallbackReason(data.Reason); err == nil {
		ev.Reason = r
	}
	if data.Obj != 0 {
		ev.Object = s.fromRaw(data.Obj)
	}
	if data.Time != nil {
		t, err := timeFromRaw(*data.Time)
		if err != nil {
			s.logger.Error("undecodable callback time", zap.Stringer("registration", reg.id), zap.Error(err))
		} else {
			ev.Time = t
		}
	}
	if data.Value != nil {
		v, err := decodeValue(errors.OpTrampoline, data.Value)
		if err != nil {
			s.logger.Error("undecodable callback value", zap.Stringer("registration", reg.id), zap.Error(err))
		} else {
			ev.Value = &v
		}
	}

	s.metrics.CallbackFired(ev.Reason.String())
	s.logger.Debug("callback fired",
		zap.Stringer("reason", ev.Reason),
		zap.Uint32("slot", uint32(slot)),
		zap.Stringer("registration", reg.id))

	reg.fn(ev)

	if reg.reason.OneShot() {
		if _, ok := s.callbacks.Remove(slot); ok {
			s.logger.Debug("callback retired",
				zap.Stringer("reason", reg.reason),
				zap.Uint32("slot", uint32(slot)),
				zap.Stringer("registration", reg.id))
		}
	}
	return 0
}
