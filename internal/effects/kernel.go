package effects

import (
	"fmt"
	"math"
)

// GaussianKernel builds a normalized 1-D Gaussian weight vector of length
// 2*radius+1 with sigma = radius/3. After normalization the weights sum to 1,
// so blurring a constant field leaves it unchanged.
func GaussianKernel(radius int) ([]float64, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("gaussian kernel radius must be positive, got %d", radius)
	}

	sigma := float64(radius) / 3
	twoSigmaSq := 2 * sigma * sigma
	norm := math.Sqrt(twoSigmaSq * math.Pi)

	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for x := -radius; x <= radius; x++ {
		w := math.Exp(-float64(x*x)/twoSigmaSq) / norm
		kernel[x+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, nil
}
