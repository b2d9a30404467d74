package vpi

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/wippyai/sim-vpi/errors"
)

// Printer writes text to the simulator's output, the same transcript the
// simulator itself prints to. One Write is one native call made while
// holding the session's output lock, so concurrent writers never interleave
// within a write.
//
// Writes made before startup has finished fail with an error. Text is
// passed to the simulator as a C string, so a write containing a NUL byte is
// rejected.
type Printer struct {
	s         *Session
	prelocked atomic.Bool
}

var (
	_ io.Writer       = (*Printer)(nil)
	_ io.StringWriter = (*Printer)(nil)
)

// Printer returns the session's output printer.
func (s *Session) Printer() *Printer {
	return s.printer
}

// Write implements io.Writer.
func (p *Printer) Write(b []byte) (int, error) {
	if err := p.check(b); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	p.s.printMu.Lock()
	defer p.s.printMu.Unlock()
	return p.s.writeLocked(b)
}

// WriteString implements io.StringWriter.
func (p *Printer) WriteString(str string) (int, error) {
	return p.Write([]byte(str))
}

// Sync flushes the simulator output. It needs the full guard.
func (p *Printer) Sync() error {
	return p.s.Flush()
}

// IsPrelocked reports whether a LockedPrinter currently holds the output lock.
func (p *Printer) IsPrelocked() bool {
	return p.prelocked.Load()
}

// Prelock takes the output lock for a sequence of writes. The caller must
// call Unlock on the result; writes through p block until then.
func (p *Printer) Prelock() *LockedPrinter {
	p.s.printMu.Lock()
	p.prelocked.Store(true)
	return &LockedPrinter{p: p}
}

func (p *Printer) check(b []byte) error {
	if !p.s.guard.StartupFinished() {
		return errors.InvalidInput(errors.OpPrint, "cannot print during a startup routine")
	}
	if bytes.IndexByte(b, 0) >= 0 {
		return errors.InvalidInput(errors.OpPrint, "text contains a NUL byte")
	}
	return nil
}

// LockedPrinter writes while holding the output lock taken by Prelock.
type LockedPrinter struct {
	p        *Printer
	released bool
}

// Write implements io.Writer.
func (l *LockedPrinter) Write(b []byte) (int, error) {
	if l.released {
		return 0, errors.InvalidInput(errors.OpPrint, "write through an unlocked printer")
	}
	if err := l.p.check(b); err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, nil
	}
	return l.p.s.writeLocked(b)
}

// WriteString implements io.StringWriter.
func (l *LockedPrinter) WriteString(str string) (int, error) {
	return l.Write([]byte(str))
}

// Unlock releases the output lock. Calling it twice does nothing.
func (l *LockedPrinter) Unlock() {
	if l.released {
		return
	}
	l.released = true
	l.p.prelocked.Store(false)
	l.p.s.printMu.Unlock()
}

// writeLocked issues the native write. printMu must be held.
func (s *Session) writeLocked(b []byte) (int, error) {
	s.call(errors.OpPrint)
	n := s.native.WriteText(b)
	if n < 0 {
		return 0, s.failure(errors.OpPrint, "simulator output write failed")
	}
	s.metrics.Output(int(n))
	if int(n) != len(b) {
		return int(n), errors.Wrap(errors.OpPrint, errors.KindUnknownSimulator, io.ErrShortWrite,
			fmt.Sprintf("wrote %d of %d bytes", n, len(b)))
	}
	return int(n), nil
}

// Flush flushes the simulator output.
func (s *Session) Flush() error {
	s.guard.Check("Session.Flush")
	s.call(errors.OpFlush)
	if rc := s.native.Flush(); rc != 0 {
		s.metrics.NativeError(string(errors.OpFlush), string(errors.KindUnknownSimulator))
		return errors.New(errors.OpFlush, errors.KindUnknownSimulator).
			Value(rc).
			Detail("flush returned %d", rc).
			Build()
	}
	return nil
}

// Printf formats to the simulator output.
func (s *Session) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(s.printer, format, args...)
	return err
}

// Println prints its operands followed by a newline to the simulator output.
func (s *Session) Println(args ...any) error {
	_, err := fmt.Fprintln(s.printer, args...)
	return err
}
