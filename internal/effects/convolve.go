package effects

import (
	"github.com/dmaxwell/rasterfx/internal/raster"
)

var (
	sharpenKernel = [9]float64{0, -1, 0, -1, 5, -1, 0, -1, 0}
	embossKernel  = [9]float64{-2, -1, 0, -1, 1, 1, 0, 1, 2}
	edgeKernel    = [9]float64{-1, -1, -1, -1, 8, -1, -1, -1, -1}
)

// Sharpen accentuates local contrast with a 3x3 unsharp kernel.
func Sharpen(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return convolve3x3(src, sharpenKernel), nil
}

// Emboss produces a relief effect along the top-left/bottom-right diagonal.
func Emboss(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return convolve3x3(src, embossKernel), nil
}

// Edge detects edges with a Laplacian-style kernel.
func Edge(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return convolve3x3(src, edgeKernel), nil
}

// convolve3x3 applies a fixed 3x3 kernel to the R, G and B channels of every
// interior pixel. The outermost 1-pixel ring is carried over from the input
// untouched; this border policy is part of the output contract. Alpha is
// copied through as-is.
func convolve3x3(src *raster.Buffer, kernel [9]float64) *raster.Buffer {
	out := src.Clone()
	w, h := src.Width, src.Height
	if w < 3 || h < 3 {
		return out
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			var sumR, sumG, sumB float64
			ki := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					off := src.Offset(x+dx, y+dy)
					k := kernel[ki]
					ki++
					sumR += k * float64(src.Pix[off])
					sumG += k * float64(src.Pix[off+1])
					sumB += k * float64(src.Pix[off+2])
				}
			}
			off := out.Offset(x, y)
			out.Pix[off] = clampByte(sumR)
			out.Pix[off+1] = clampByte(sumG)
			out.Pix[off+2] = clampByte(sumB)
		}
	}
	return out
}
