package effects

import (
	"math"

	"github.com/dmaxwell/rasterfx/internal/raster"
)

// Vignette darkens pixels radially with distance from the image center.
// params["strength"] defaults to 0.5 and is clamped to [0, 1]; alpha is left
// untouched.
func Vignette(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	strength := clamp01(p.Float("strength", 0.5))

	cx := float64(src.Width-1) / 2
	cy := float64(src.Height-1) / 2
	maxDist := math.Hypot(cx, cy)

	out := src.Clone()
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			factor := 1.0
			if maxDist > 0 {
				dist := math.Hypot(float64(x)-cx, float64(y)-cy)
				factor = clamp01(1 - (dist/maxDist)*strength)
			}
			off := out.Offset(x, y)
			out.Pix[off] = clampByte(float64(src.Pix[off]) * factor)
			out.Pix[off+1] = clampByte(float64(src.Pix[off+1]) * factor)
			out.Pix[off+2] = clampByte(float64(src.Pix[off+2]) * factor)
		}
	}
	return out, nil
}
