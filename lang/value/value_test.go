package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntCmp(t *testing.T) {
	assert.Equal(t, -1, Int(1).Cmp(2))
	assert.Equal(t, 0, Int(5).Cmp(5))
	assert.Equal(t, 1, Int(5).Cmp(2))
}

func TestStringLen(t *testing.T) {
	assert.Equal(t, 0, String("").Len())
	assert.Equal(t, 3, String("abc").Len())
	assert.Equal(t, 1, String("é").Len()) // a single code point, not byte count
}

func TestBoolString(t *testing.T) {
	assert.Equal(t, "true", True.String())
	assert.Equal(t, "false", False.String())
}

func TestIsUninitialized(t *testing.T) {
	assert.True(t, IsUninitialized(Uninitialized))
	assert.False(t, IsUninitialized(Nil))
	assert.False(t, IsUninitialized(Int(0)))
}

func TestTypeTags(t *testing.T) {
	assert.Equal(t, "int", Int(0).Type())
	assert.Equal(t, "string", String("").Type())
	assert.Equal(t, "bool", True.Type())
	assert.Equal(t, "nil", Nil.Type())
	assert.Equal(t, "", Uninitialized.Type())
}
