package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		width    int
		height   int
		expected bool
	}{
		{"top-left corner", 0, 0, 10, 10, true},
		{"bottom-right corner", 9, 9, 10, 10, true},
		{"center", 5, 5, 10, 10, true},
		{"single tile", 0, 0, 1, 1, true},
		{"negative x", -1, 5, 10, 10, false},
		{"negative y", 5, -1, 10, 10, false},
		{"x equals width", 10, 5, 10, 10, false},
		{"y equals height", 5, 10, 10, 10, false},
		{"zero width", 0, 0, 0, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidCoordinate(tt.x, tt.y, tt.width, tt.height))
		})
	}
}
