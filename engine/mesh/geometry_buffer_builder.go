package mesh

import "math/rand/v2"

// GeometryBufferOption is a functional option for configuring a GeometryBuffer.
type GeometryBufferOption func(*geometryBuffer)

// WithRand sets the random source used for triangle colors.
// Passing a seeded source makes the generated colors reproducible.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - GeometryBufferOption: option function to apply
func WithRand(rng *rand.Rand) GeometryBufferOption {
	return func(g *geometryBuffer) {
		g.rng = rng
	}
}

// WithSeed seeds a PCG source for triangle colors.
//
// Parameters:
//   - seed: the PCG seed
//
// Returns:
//   - GeometryBufferOption: option function to apply
func WithSeed(seed uint64) GeometryBufferOption {
	return func(g *geometryBuffer) {
		g.rng = rand.New(rand.NewPCG(seed, seed))
	}
}
