package finance

import "math/rand/v2"

// Noise perturbs the "actual" half of a projection for display variety.
// Perturb returns a value in [-width/2, width/2).
type Noise interface {
	Perturb(width float64) float64
}

// NoNoise always returns zero, which makes projections fully deterministic.
type NoNoise struct{}

func (NoNoise) Perturb(float64) float64 { return 0 }

type seededNoise struct {
	rng *rand.Rand
}

// SeededNoise returns a reproducible Noise source. The returned value is not
// safe for concurrent use; create one per projection.
func SeededNoise(seed uint64) Noise {
	return &seededNoise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *seededNoise) Perturb(width float64) float64 {
	return (n.rng.Float64() - 0.5) * width
}

func orNoNoise(n Noise) Noise {
	if n == nil {
		return NoNoise{}
	}
	return n
}
