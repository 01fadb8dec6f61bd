package effects

import (
	"math/rand"
	"time"

	"github.com/dmaxwell/rasterfx/internal/raster"
)

// Noise perturbs each pixel by a single uniform sample in
// [-amount/2, amount/2), reused across that pixel's R, G and B channels.
// params["amount"] defaults to 50. Output is non-deterministic unless an
// integer params["seed"] is supplied, which makes runs reproducible.
func Noise(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	amount := p.Float("amount", 50)

	var rng *rand.Rand
	if _, ok := p["seed"]; ok {
		rng = rand.New(rand.NewSource(int64(p.Int("seed", 0))))
	} else {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	out := src.Clone()
	for i := 0; i < len(out.Pix); i += raster.PixelStride {
		n := (rng.Float64() - 0.5) * amount
		out.Pix[i] = clampByte(float64(src.Pix[i]) + n)
		out.Pix[i+1] = clampByte(float64(src.Pix[i+1]) + n)
		out.Pix[i+2] = clampByte(float64(src.Pix[i+2]) + n)
	}
	return out, nil
}
