package effects

import (
	"github.com/dmaxwell/rasterfx/internal/raster"
)

const (
	minBlurRadius = 1
	maxBlurRadius = 10
)

// Blur applies a separable Gaussian blur: a horizontal pass followed by a
// vertical pass, each sampling 2*radius+1 neighbors with edge-clamped
// coordinates (never wrapping or zero-padding). All four channels are
// blurred, alpha included. params["radius"] defaults to 1 and is clamped to
// [1, 10].
func Blur(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	radius := p.Int("radius", minBlurRadius)
	if radius < minBlurRadius {
		radius = minBlurRadius
	}
	if radius > maxBlurRadius {
		radius = maxBlurRadius
	}

	kernel, err := GaussianKernel(radius)
	if err != nil {
		return nil, err
	}

	horizontal := blurPass(src, kernel, radius, true)
	return blurPass(horizontal, kernel, radius, false), nil
}

func blurPass(src *raster.Buffer, kernel []float64, radius int, horizontal bool) *raster.Buffer {
	out := src.Clone()
	w, h := src.Width, src.Height

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sumR, sumG, sumB, sumA float64
			for i, weight := range kernel {
				sx, sy := x, y
				if horizontal {
					sx = clampIndex(x+i-radius, w)
				} else {
					sy = clampIndex(y+i-radius, h)
				}
				off := src.Offset(sx, sy)
				sumR += weight * float64(src.Pix[off])
				sumG += weight * float64(src.Pix[off+1])
				sumB += weight * float64(src.Pix[off+2])
				sumA += weight * float64(src.Pix[off+3])
			}
			off := out.Offset(x, y)
			out.Pix[off] = clampByte(sumR)
			out.Pix[off+1] = clampByte(sumG)
			out.Pix[off+2] = clampByte(sumB)
			out.Pix[off+3] = clampByte(sumA)
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
