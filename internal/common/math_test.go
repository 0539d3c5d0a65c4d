package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive number", 5, 5},
		{"negative number", -5, 5},
		{"zero", 0, 0},
		{"large negative", -1000000, 1000000},
		{"min int special case", math.MinInt32 + 1, math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Abs(tt.input))
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi int
		expected  int
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -3, 0, 10, 0},
		{"above", 12, 0, 10, 10},
		{"at bounds", 10, 0, 10, 10},
		{"degenerate range", 4, 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestClampFloat(t *testing.T) {
	assert.Equal(t, 0.5, ClampFloat(0.5, 0, 1))
	assert.Equal(t, 0.0, ClampFloat(-0.1, 0, 1))
	assert.Equal(t, 1.0, ClampFloat(3, 0, 1))
}

func TestManhattanDistance(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		expected       int
	}{
		{"same point", 3, 3, 3, 3, 0},
		{"horizontal", 0, 0, 5, 0, 5},
		{"vertical", 0, 0, 0, 7, 7},
		{"diagonal", 1, 1, 4, 5, 7},
		{"negative coordinates", -2, -2, 2, 2, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ManhattanDistance(tt.x1, tt.y1, tt.x2, tt.y2))
			assert.Equal(t, tt.expected, ManhattanDistance(tt.x2, tt.y2, tt.x1, tt.y1))
		})
	}
}
