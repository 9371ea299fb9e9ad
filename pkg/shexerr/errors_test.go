package shexerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPath(t *testing.T) {
	assert.Nil(t, WrapPath("x", nil))

	err := WrapPath("shapes[0]", ErrInvalidSchema)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSchema))
	assert.Equal(t, "at shapes[0]: invalid ShEx schema", err.Error())
}

func TestWrapPathf(t *testing.T) {
	err := WrapPathf("shapes[2]", "label %q already defined", "ShapeA")
	assert.EqualError(t, err, `at shapes[2]: label "ShapeA" already defined`)
}

func TestIsPathErrorAndGetPath(t *testing.T) {
	err := WrapPath("a/b/c", ErrMalformedJSON)
	assert.True(t, IsPathError(err))
	assert.Equal(t, "a/b/c", GetPath(err))

	plain := errors.New("boom")
	assert.False(t, IsPathError(plain))
	assert.Equal(t, "", GetPath(plain))
}
