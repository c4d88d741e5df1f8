package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, Validate(a))
	require.NoError(t, Validate(b))
	assert.NotEqual(t, a, b)
}

func TestValidate_Errors(t *testing.T) {
	for _, in := range []string{"", "not-a-uuid", "2025-01-001a"} {
		assert.Error(t, Validate(in), "Validate(%q)", in)
	}
}

func TestSequence(t *testing.T) {
	s := &Sequence{Prefix: "rec"}
	assert.Equal(t, "rec-1", s.NewID())
	assert.Equal(t, "rec-2", s.NewID())
}

func TestUUIDGenerator(t *testing.T) {
	var g Generator = UUID{}
	assert.NoError(t, Validate(g.NewID()))
}
