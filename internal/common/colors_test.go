package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerColor(t *testing.T) {
	assert.Equal(t, ColorRed, PlayerColor(0))
	assert.Equal(t, ColorGreen, PlayerColor(1))
	assert.Equal(t, ColorRed, PlayerColor(len(PlayerColors)), "palette wraps around")
	assert.Equal(t, ColorWhite, PlayerColor(-1))

	seen := map[string]bool{ColorBlue: true}
	for _, c := range PlayerColors {
		assert.False(t, seen[c], "color %q repeats or collides with water", c)
		seen[c] = true
	}
}
