package shortener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	gen := NewCodeGenerator(8)

	for i := 0; i < 100; i++ {
		code := gen.Generate()
		assert.Len(t, code, 8)
		assert.True(t, InAlphabet(code), "generated code %q outside alphabet", code)
	}
}

func TestNewCodeGenerator_ClampsLength(t *testing.T) {
	assert.Equal(t, MinLength, NewCodeGenerator(3).Length())
	assert.Equal(t, MinLength, NewCodeGenerator(0).Length())
	assert.Equal(t, 12, NewCodeGenerator(40).Length())
	assert.Equal(t, 9, NewCodeGenerator(9).Length())
}

func TestGenerate_NoImmediateCollisions(t *testing.T) {
	gen := NewCodeGenerator(7)

	seen := make(map[string]bool, 1000)
	for i := 0; i < 1000; i++ {
		code := gen.Generate()
		assert.False(t, seen[code], "collision on draw %d: %s", i, code)
		seen[code] = true
	}
}

func TestInAlphabet(t *testing.T) {
	assert.True(t, InAlphabet("abcXYZ09-_"))
	assert.False(t, InAlphabet(""))
	assert.False(t, InAlphabet("with space"))
	assert.False(t, InAlphabet("emoji🙂"))
	assert.False(t, InAlphabet("semi;colon"))
}
