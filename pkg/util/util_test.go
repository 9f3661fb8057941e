package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReverseG(t *testing.T) {
	in := []uint32{3, 1, 4, 1, 5}
	assert.Equal(t, []uint32{5, 1, 4, 1, 3}, ReverseG(in))
	assert.Equal(t, []uint32{3, 1, 4, 1, 5}, in, "input must be left alone")

	assert.Empty(t, ReverseG([]string(nil)))
	assert.Equal(t, []string{"a"}, ReverseG([]string{"a"}))
}
