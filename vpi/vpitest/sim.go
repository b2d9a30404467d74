// Package vpitest provides an in-memory simulator implementing vpi.Native,
// for tests of code built on package vpi.
//
// The fake behaves like a strict simulator: iteration cursors are freed when
// a scan returns null, property strings are returned in a buffer reused by
// the next call, and the last-error record describes only the most recent
// call.
package vpitest

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/wippyai/sim-vpi/vpi"
)

// Error levels and states used in scripted records.
const (
	levelError = 3
	stateRun   = 3
)

// Object is a node of the fake hierarchy.
type Object struct {
	Name string
	// Ints, Int64s and Strings hold extra properties by native code.
	Ints    map[int32]int32
	Int64s  map[int32]int64
	Strings map[int32]string
	// Values holds the object's value per native format code.
	Values   map[int32]vpi.RawValue
	Related  map[int32]*Object
	Children []*Object
	Type     vpi.ObjectType

	parent *Object
	handle vpi.RawHandle
	sim    *Sim
}

// Handle returns the object's primary native handle.
func (o *Object) Handle() vpi.RawHandle {
	return o.handle
}

// Parent returns the enclosing object, nil for roots.
func (o *Object) Parent() *Object {
	return o.parent
}

// FullName returns the dot-separated hierarchical name.
func (o *Object) FullName() string {
	if o.parent == nil {
		return o.Name
	}
	return o.parent.FullName() + "." + o.Name
}

// AddChild creates a child object.
func (o *Object) AddChild(t vpi.ObjectType, name string) *Object {
	c := o.sim.newObject(t, name)
	c.parent = o
	o.Children = append(o.Children, c)
	return c
}

// SetInt sets an integer property.
func (o *Object) SetInt(p vpi.ObjectProperty, v int32) *Object {
	o.Ints[p.Code()] = v
	return o
}

// SetInt64 sets a 64-bit property.
func (o *Object) SetInt64(p vpi.ObjectProperty, v int64) *Object {
	o.Int64s[p.Code()] = v
	return o
}

// SetString sets a string property.
func (o *Object) SetString(p vpi.ObjectProperty, v string) *Object {
	o.Strings[p.Code()] = v
	return o
}

// SetValue stores the value reported for format.
func (o *Object) SetValue(format vpi.ValueFormat, v vpi.RawValue) *Object {
	v.Format = format.Code()
	o.Values[format.Code()] = v
	return o
}

// Control records one vpi_control call.
type Control struct {
	Op   int32
	Diag int32
}

// Failure scripts the error record reported after the next call of an entry
// point.
type Failure struct {
	Message string
	Product string
	Code    string
	File    string
	State   int32
	Level   int32
	Line    int32
}

// Sim is the fake simulator. It is not safe for concurrent use, except
// WriteText, which detects overlapping writes instead of preventing them.
type Sim struct {
	objects   map[vpi.RawHandle]*Object
	iterators map[vpi.RawHandle][]*Object
	callbacks map[vpi.RawHandle]*vpi.CallbackData
	cbOrder   []vpi.RawHandle
	failures  map[string]Failure
	lastErr   *Failure
	roots     []*Object
	strBuf    []byte
	next      vpi.RawHandle

	// Controls lists every accepted control call.
	Controls []Control
	// Argv, Product and Version are reported by VlogInfo.
	Argv    []string
	Product string
	Version string
	// InfoUnavailable makes VlogInfo fail.
	InfoUnavailable bool
	// ShortWrite makes WriteText report one byte less than requested.
	ShortWrite bool
	// FlushResult is returned by Flush.
	FlushResult int32

	scans     atomic.Int64
	staleScan atomic.Int64
	inWrite   atomic.Int32
	overlaps  atomic.Int64
	outMu     sync.Mutex
	output    []byte
}

// New creates an empty simulator.
func New() *Sim {
	return &Sim{
		objects:   make(map[vpi.RawHandle]*Object),
		iterators: make(map[vpi.RawHandle][]*Object),
		callbacks: make(map[vpi.RawHandle]*vpi.CallbackData),
		failures:  make(map[string]Failure),
		next:      0x1000,
		Product:   "vpitest",
		Version:   "1.0",
	}
}

func (s *Sim) alloc() vpi.RawHandle {
	s.next += 0x10
	return s.next
}

func (s *Sim) newObject(t vpi.ObjectType, name string) *Object {
	o := &Object{
		Name:    name,
		Type:    t,
		Ints:    make(map[int32]int32),
		Int64s:  make(map[int32]int64),
		Strings: make(map[int32]string),
		Values:  make(map[int32]vpi.RawValue),
		Related: make(map[int32]*Object),
		sim:     s,
	}
	o.handle = s.alloc()
	s.objects[o.handle] = o
	return o
}

// AddRoot creates a top-level object.
func (s *Sim) AddRoot(t vpi.ObjectType, name string) *Object {
	o := s.newObject(t, name)
	s.roots = append(s.roots, o)
	return o
}

// Alias returns a second, distinct native handle for o. The simulator treats
// both as the same object.
func (s *Sim) Alias(o *Object) vpi.RawHandle {
	h := s.alloc()
	s.objects[h] = o
	return h
}

// Object returns the object behind a handle.
func (s *Sim) Object(h vpi.RawHandle) (*Object, bool) {
	o, ok := s.objects[h]
	return o, ok
}

// Fail scripts the error reported after the next call of entry, named after
// the C function (e.g. "vpi_scan").
func (s *Sim) Fail(entry string, f Failure) {
	if f.Level == 0 {
		f.Level = levelError
	}
	if f.State == 0 {
		f.State = stateRun
	}
	s.failures[entry] = f
}

// Scans returns the number of vpi_scan calls made.
func (s *Sim) Scans() int {
	return int(s.scans.Load())
}

// StaleScans returns the number of scans issued on freed or unknown cursors.
func (s *Sim) StaleScans() int {
	return int(s.staleScan.Load())
}

// Overlaps returns the number of WriteText calls that overlapped another.
func (s *Sim) Overlaps() int {
	return int(s.overlaps.Load())
}

// Output returns everything written with WriteText.
func (s *Sim) Output() string {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return string(s.output)
}

// enter starts a native call: the previous error record is discarded and a
// scripted failure, if any, is armed. It reports whether the call fails.
func (s *Sim) enter(entry string) bool {
	s.lastErr = nil
	f, ok := s.failures[entry]
	if !ok {
		return false
	}
	delete(s.failures, entry)
	s.lastErr = &f
	return true
}

func (s *Sim) setError(msg string) {
	s.lastErr = &Failure{Message: msg, Product: "vpitest", State: stateRun, Level: levelError}
}

func (s *Sim) Iterate(objType int32, ref vpi.RawHandle) vpi.RawHandle {
	if s.enter("vpi_iterate") {
		return 0
	}
	list := s.roots
	if ref != 0 {
		o, ok := s.objects[ref]
		if !ok {
			s.setError("vpi_iterate: invalid reference handle")
			return 0
		}
		list = o.Children
	}
	var matched []*Object
	for _, c := range list {
		if c.Type.Code() == objType {
			matched = append(matched, c)
		}
	}
	if len(matched) == 0 {
		return 0
	}
	h := s.alloc()
	s.iterators[h] = matched
	return h
}

func (s *Sim) Scan(iterator vpi.RawHandle) vpi.RawHandle {
	s.scans.Add(1)
	if s.enter("vpi_scan") {
		return 0
	}
	rest, ok := s.iterators[iterator]
	if !ok {
		s.staleScan.Add(1)
		s.setError("vpi_scan: invalid iterator")
		return 0
	}
	if len(rest) == 0 {
		delete(s.iterators, iterator)
		return 0
	}
	s.iterators[iterator] = rest[1:]
	return rest[0].handle
}

func (s *Sim) Get(prop int32, obj vpi.RawHandle) int32 {
	if s.enter("vpi_get") {
		return -1
	}
	o, ok := s.objects[obj]
	if !ok {
		s.setError("vpi_get: invalid handle")
		return -1
	}
	if prop == vpi.PropType.Code() {
		return o.Type.Code()
	}
	if prop == vpi.PropSize.Code() {
		if v, ok := o.Ints[prop]; ok {
			return v
		}
		return 1
	}
	v, ok := o.Ints[prop]
	if !ok {
		s.setError("vpi_get: property not defined for object")
		return -1
	}
	return v
}

func (s *Sim) Get64(prop int32, obj vpi.RawHandle) int64 {
	if s.enter("vpi_get64") {
		return -1
	}
	o, ok := s.objects[obj]
	if !ok {
		s.setError("vpi_get64: invalid handle")
		return -1
	}
	if v, ok := o.Int64s[prop]; ok {
		return v
	}
	if v, ok := o.Ints[prop]; ok {
		return int64(v)
	}
	s.setError("vpi_get64: property not defined for object")
	return -1
}

// GetStr returns a view of a buffer that the next call overwrites.
func (s *Sim) GetStr(prop int32, obj vpi.RawHandle) []byte {
	if s.enter("vpi_get_str") {
		return nil
	}
	o, ok := s.objects[obj]
	if !ok {
		s.setError("vpi_get_str: invalid handle")
		return nil
	}
	var str string
	switch prop {
	case vpi.PropName.Code():
		str = o.Name
	case vpi.PropFullName.Code():
		str = o.FullName()
	default:
		v, ok := o.Strings[prop]
		if !ok {
			return nil
		}
		str = v
	}
	s.strBuf = append(s.strBuf[:0], str...)
	return s.strBuf
}

func (s *Sim) Handle(objType int32, ref vpi.RawHandle) vpi.RawHandle {
	if s.enter("vpi_handle") {
		return 0
	}
	o, ok := s.objects[ref]
	if !ok {
		s.setError("vpi_handle: invalid reference handle")
		return 0
	}
	if r, ok := o.Related[objType]; ok {
		return r.handle
	}
	for p := o.parent; p != nil; p = p.parent {
		if p.Type.Code() == objType {
			return p.handle
		}
	}
	return 0
}

func (s *Sim) HandleByName(name string, scope vpi.RawHandle) vpi.RawHandle {
	if s.enter("vpi_handle_by_name") {
		return 0
	}
	prefix := ""
	if scope != 0 {
		o, ok := s.objects[scope]
		if !ok {
			s.setError("vpi_handle_by_name: invalid scope")
			return 0
		}
		prefix = o.FullName() + "."
	}
	target := prefix + name
	var found *Object
	var walk func([]*Object)
	walk = func(list []*Object) {
		for _, o := range list {
			if found != nil {
				return
			}
			if o.FullName() == target {
				found = o
				return
			}
			walk(o.Children)
		}
	}
	walk(s.roots)
	if found == nil {
		return 0
	}
	return found.handle
}

func (s *Sim) CompareObjects(a, b vpi.RawHandle) bool {
	if s.enter("vpi_compare_objects") {
		return false
	}
	oa, ok1 := s.objects[a]
	ob, ok2 := s.objects[b]
	return ok1 && ok2 && oa == ob
}

func (s *Sim) GetValue(obj vpi.RawHandle, value *vpi.RawValue) {
	if s.enter("vpi_get_value") {
		return
	}
	o, ok := s.objects[obj]
	if !ok {
		s.setError("vpi_get_value: invalid handle")
		return
	}
	v, ok := o.Values[value.Format]
	if !ok {
		s.setError("vpi_get_value: format not supported for object")
		return
	}
	*value = v
}

// RegisterCallback stores a copy of the descriptor.
func (s *Sim) RegisterCallback(data *vpi.CallbackData) vpi.RawHandle {
	if s.enter("vpi_register_cb") {
		return 0
	}
	cp := *data
	if data.Time != nil {
		t := *data.Time
		cp.Time = &t
	}
	if data.Value != nil {
		v := *data.Value
		cp.Value = &v
	}
	h := s.alloc()
	s.callbacks[h] = &cp
	s.cbOrder = append(s.cbOrder, h)
	return h
}

func (s *Sim) RemoveCallback(cb vpi.RawHandle) bool {
	if s.enter("vpi_remove_cb") {
		return false
	}
	if _, ok := s.callbacks[cb]; !ok {
		s.setError("vpi_remove_cb: unknown callback")
		return false
	}
	s.dropCallback(cb)
	return true
}

func (s *Sim) dropCallback(cb vpi.RawHandle) {
	delete(s.callbacks, cb)
	for i, h := range s.cbOrder {
		if h == cb {
			s.cbOrder = append(s.cbOrder[:i], s.cbOrder[i+1:]...)
			break
		}
	}
}

func (s *Sim) ChkError(info *vpi.ErrorInfo) int32 {
	if s.lastErr == nil {
		*info = vpi.ErrorInfo{}
		return 0
	}
	f := s.lastErr
	*info = vpi.ErrorInfo{
		Message: []byte(f.Message),
		Product: []byte(f.Product),
		Code:    []byte(f.Code),
		File:    []byte(f.File),
		State:   f.State,
		Level:   f.Level,
		Line:    f.Line,
	}
	return f.Level
}

func (s *Sim) Control(op int32, diag int32) bool {
	if s.enter("vpi_control") {
		return false
	}
	s.Controls = append(s.Controls, Control{Op: op, Diag: diag})
	return true
}

// WriteText appends text one byte at a time, yielding between bytes so
// that unserialized concurrent writers interleave.
func (s *Sim) WriteText(text []byte) int32 {
	if s.inWrite.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	defer s.inWrite.Add(-1)

	n := len(text)
	if s.ShortWrite && n > 0 {
		n--
	}
	for _, c := range text[:n] {
		s.outMu.Lock()
		s.output = append(s.output, c)
		s.outMu.Unlock()
		runtime.Gosched()
	}
	return int32(n)
}

func (s *Sim) Flush() int32 {
	s.enter("vpi_flush")
	return s.FlushResult
}

func (s *Sim) VlogInfo(info *vpi.VlogInfo) bool {
	if s.enter("vpi_get_vlog_info") || s.InfoUnavailable {
		return false
	}
	argv := make([][]byte, len(s.Argv))
	for i, a := range s.Argv {
		argv[i] = []byte(a)
	}
	*info = vpi.VlogInfo{Argv: argv, Product: []byte(s.Product), Version: []byte(s.Version)}
	return true
}

var _ vpi.Native = (*Sim)(nil)
