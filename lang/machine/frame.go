package machine

import (
	"github.com/dolthub/swiss"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

// Frame is a mapping from identifier to Value, the per-container storage for
// the Global frame, the Temporary frame, and each entry of the Local frame
// stack (spec §3). It is backed by a swiss.Map, the same open-addressing map
// nenuphar's own machine.Map value type uses, rather than a builtin Go map:
// frame lookups are the hottest path in the engine's fetch/execute loop.
type Frame struct {
	vars *swiss.Map[string, value.Value]
}

func newFrame() *Frame {
	return &Frame{vars: swiss.NewMap[string, value.Value](8)}
}

// define creates name bound to Uninitialized. It fails if name is already
// bound in this frame (spec §3 invariant: "each variable binding is created
// by exactly one DEFVAR").
func (f *Frame) define(name string) error {
	if _, ok := f.vars.Get(name); ok {
		return ipperr.Newf(ipperr.SemanticError, "variable %q already defined", name)
	}
	f.vars.Put(name, value.Uninitialized)
	return nil
}

func (f *Frame) get(name string) (value.Value, bool) {
	return f.vars.Get(name)
}

// set overwrites the value of an already-defined name. It reports false if
// name is not bound in this frame.
func (f *Frame) set(name string, v value.Value) bool {
	if _, ok := f.vars.Get(name); !ok {
		return false
	}
	f.vars.Put(name, v)
	return true
}

// snapshot returns an independent copy of f's bindings, used by BREAK to
// render the Global frame without exposing the live swiss.Map.
func (f *Frame) snapshot() map[string]value.Value {
	out := make(map[string]value.Value, f.vars.Count())
	f.vars.Iter(func(k string, v value.Value) bool {
		out[k] = v
		return false
	})
	return out
}

// FrameStore holds the three variable containers described in spec §3/§4.4:
// the permanent Global frame, the Temporary frame (explicitly present or
// absent), and the Local frame stack.
type FrameStore struct {
	global *Frame
	temp   *Frame // nil means "absent"
	locals []*Frame
}

// NewFrameStore returns a FrameStore with an empty Global frame, an absent
// Temporary frame, and an empty Local frame stack.
func NewFrameStore() *FrameStore {
	return &FrameStore{global: newFrame()}
}

// EnsureExists fails with FrameMissing if kind is TF and the Temporary frame
// is absent, or LF and the Local frame stack is empty. GF always exists.
func (fs *FrameStore) EnsureExists(kind program.FrameKind) error {
	switch kind {
	case program.GlobalFrame:
		return nil
	case program.TemporaryFrame:
		if fs.temp == nil {
			return ipperr.New(ipperr.FrameMissing)
		}
		return nil
	case program.LocalFrame:
		if len(fs.locals) == 0 {
			return ipperr.New(ipperr.FrameMissing)
		}
		return nil
	default:
		return ipperr.New(ipperr.InternalInvariant)
	}
}

func (fs *FrameStore) frameFor(kind program.FrameKind) (*Frame, error) {
	if err := fs.EnsureExists(kind); err != nil {
		return nil, err
	}
	switch kind {
	case program.GlobalFrame:
		return fs.global, nil
	case program.TemporaryFrame:
		return fs.temp, nil
	default: // LocalFrame
		return fs.locals[len(fs.locals)-1], nil
	}
}

// CreateTemporary (re)initializes the Temporary frame to empty and marks it
// present (CREATEFRAME).
func (fs *FrameStore) CreateTemporary() {
	fs.temp = newFrame()
}

// PushTemporaryAsLocal moves the Temporary frame onto the Local frame stack
// and marks the Temporary frame absent (PUSHFRAME).
func (fs *FrameStore) PushTemporaryAsLocal() error {
	if fs.temp == nil {
		return ipperr.New(ipperr.FrameMissing)
	}
	fs.locals = append(fs.locals, fs.temp)
	fs.temp = nil
	return nil
}

// PopLocalToTemporary moves the top of the Local frame stack into the
// Temporary frame, marking it present, and shrinks the Local frame stack
// (POPFRAME).
func (fs *FrameStore) PopLocalToTemporary() error {
	if len(fs.locals) == 0 {
		return ipperr.New(ipperr.FrameMissing)
	}
	n := len(fs.locals) - 1
	fs.temp = fs.locals[n]
	fs.locals = fs.locals[:n]
	return nil
}

// Define creates name as Uninitialized in the named frame (DEFVAR).
func (fs *FrameStore) Define(kind program.FrameKind, name string) error {
	f, err := fs.frameFor(kind)
	if err != nil {
		return err
	}
	return f.define(name)
}

// Get reads name from the named frame.
func (fs *FrameStore) Get(kind program.FrameKind, name string) (value.Value, error) {
	f, err := fs.frameFor(kind)
	if err != nil {
		return nil, err
	}
	v, ok := f.get(name)
	if !ok {
		return nil, ipperr.Newf(ipperr.UndefinedVariable, "%s@%s", kind, name)
	}
	return v, nil
}

// Set overwrites name's value in the named frame.
func (fs *FrameStore) Set(kind program.FrameKind, name string, v value.Value) error {
	f, err := fs.frameFor(kind)
	if err != nil {
		return err
	}
	if !f.set(name, v) {
		return ipperr.Newf(ipperr.UndefinedVariable, "%s@%s", kind, name)
	}
	return nil
}

// LocalDepth returns the number of frames on the Local frame stack.
func (fs *FrameStore) LocalDepth() int { return len(fs.locals) }

// LocalSnapshots returns an independent copy of each Local frame's bindings,
// ordered outermost first / innermost (the active frame) last, used by
// BREAK to render the full Local frame stack rather than just its depth.
func (fs *FrameStore) LocalSnapshots() []map[string]value.Value {
	out := make([]map[string]value.Value, len(fs.locals))
	for i, f := range fs.locals {
		out[i] = f.snapshot()
	}
	return out
}

// TemporaryExists reports whether the Temporary frame is currently present.
func (fs *FrameStore) TemporaryExists() bool { return fs.temp != nil }
