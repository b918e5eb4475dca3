package result

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Noiser perturbs bucket counts in place.
type Noiser interface {
	Noise(counts Counts)
}

// LaplaceNoiser adds Laplace(0, 1/Epsilon) noise to every count, rounds to
// the nearest integer and clamps at zero. Smaller epsilons add more noise.
type LaplaceNoiser struct {
	Epsilon float64
	Src     rand.Source
}

// NewLaplaceNoiser returns nil for a non-positive epsilon, which disables
// noise.
func NewLaplaceNoiser(epsilon float64, src rand.Source) Noiser {
	if epsilon <= 0 {
		return nil
	}
	return &LaplaceNoiser{Epsilon: epsilon, Src: src}
}

// Noise implements Noiser.
func (n *LaplaceNoiser) Noise(counts Counts) {
	dist := distuv.Laplace{Mu: 0, Scale: 1 / n.Epsilon, Src: n.Src}

	for _, buckets := range counts {
		for value, c := range buckets {
			noisy := math.Round(float64(c) + dist.Rand())
			buckets[value] = int(math.Max(noisy, 0))
		}
	}
}
