package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

func TestFrameStoreDefineAndGet(t *testing.T) {
	fs := NewFrameStore()
	require.NoError(t, fs.Define(program.GlobalFrame, "x"))

	v, err := fs.Get(program.GlobalFrame, "x")
	require.NoError(t, err)
	assert.True(t, value.IsUninitialized(v))

	require.NoError(t, fs.Set(program.GlobalFrame, "x", value.Int(3)))
	v, err = fs.Get(program.GlobalFrame, "x")
	require.NoError(t, err)
	assert.Equal(t, value.Int(3), v)
}

func TestFrameStoreDuplicateDefineFails(t *testing.T) {
	fs := NewFrameStore()
	require.NoError(t, fs.Define(program.GlobalFrame, "x"))
	err := fs.Define(program.GlobalFrame, "x")
	require.Error(t, err)
	assertKind(t, err, ipperr.SemanticError)
}

func TestFrameStoreUndefinedVariable(t *testing.T) {
	fs := NewFrameStore()
	_, err := fs.Get(program.GlobalFrame, "nope")
	require.Error(t, err)
	assertKind(t, err, ipperr.UndefinedVariable)

	err = fs.Set(program.GlobalFrame, "nope", value.Int(1))
	require.Error(t, err)
	assertKind(t, err, ipperr.UndefinedVariable)
}

func TestFrameStoreTemporaryLifecycle(t *testing.T) {
	fs := NewFrameStore()
	assert.False(t, fs.TemporaryExists())

	err := fs.Define(program.TemporaryFrame, "x")
	require.Error(t, err)
	assertKind(t, err, ipperr.FrameMissing)

	fs.CreateTemporary()
	assert.True(t, fs.TemporaryExists())
	require.NoError(t, fs.Define(program.TemporaryFrame, "x"))

	require.NoError(t, fs.PushTemporaryAsLocal())
	assert.False(t, fs.TemporaryExists())
	assert.Equal(t, 1, fs.LocalDepth())

	// the pushed frame's binding must be reachable as LF@x now
	_, err = fs.Get(program.LocalFrame, "x")
	require.NoError(t, err)

	require.NoError(t, fs.PopLocalToTemporary())
	assert.True(t, fs.TemporaryExists())
	assert.Equal(t, 0, fs.LocalDepth())
	_, err = fs.Get(program.TemporaryFrame, "x")
	require.NoError(t, err)
}

func TestFrameStorePushWithoutCreateFails(t *testing.T) {
	fs := NewFrameStore()
	err := fs.PushTemporaryAsLocal()
	require.Error(t, err)
	assertKind(t, err, ipperr.FrameMissing)
}

func TestFrameStorePopEmptyLocalStackFails(t *testing.T) {
	fs := NewFrameStore()
	err := fs.PopLocalToTemporary()
	require.Error(t, err)
	assertKind(t, err, ipperr.FrameMissing)
}

func assertKind(t *testing.T, err error, want ipperr.Kind) {
	t.Helper()
	var e *ipperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, want, e.Kind)
}
