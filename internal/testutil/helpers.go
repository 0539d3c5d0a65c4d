package testutil

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// NewTestRNG returns a seeded generator so test runs repeat exactly
func NewTestRNG(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

// NopLogger returns a logger that discards everything
func NopLogger() zerolog.Logger { return zerolog.Nop() }
