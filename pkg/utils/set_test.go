package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	set := SetFrom("window_length", "sampling_rate", "window_length")

	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("sampling_rate"))
	assert.False(t, set.Contains("temperature"))
	assert.Equal(t, []string{"sampling_rate", "window_length"}, set.Items())

	set.Remove("sampling_rate")
	set.Add("temperature")
	assert.Equal(t, []string{"temperature", "window_length"}, set.Items())
}

func TestNewSetEmpty(t *testing.T) {
	set := NewSet[int]()
	assert.Equal(t, 0, set.Size())
	assert.Empty(t, set.Items())
}
