package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerp(t *testing.T) {
	assert.Equal(t, 10.0, Lerp(10, 20, 0))
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))
	assert.Equal(t, 20.0, Lerp(10, 20, 1))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-3, 0, 5))
	assert.Equal(t, 5.0, Clamp(9, 0, 5))
	assert.Equal(t, 2.5, Clamp(2.5, 0, 5))
}
