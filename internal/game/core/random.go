package core

// Random is the single seeded stream every random decision draws from.
// *math/rand.Rand satisfies it. Draw order must be identical on every peer.
type Random interface {
	Float64() float64
	Intn(n int) int
}
