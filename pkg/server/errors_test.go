package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("lane 7 is a sidewalk")
	err := WrapErrorf(orig, ErrBadParamInput, "mode %s can't use the start lane", "car")

	var serr *Error
	assert.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrBadParamInput, serr.Code())
	assert.Equal(t, "mode car can't use the start lane", serr.Message())
	assert.Equal(t, "mode car can't use the start lane: lane 7 is a sidewalk", err.Error())
	assert.ErrorIs(t, err, orig)

	assert.Equal(t, "no route", NewErrorf(ErrNotFound, "no route").Error())
}
