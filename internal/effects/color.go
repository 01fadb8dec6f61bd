package effects

import (
	"math"

	"github.com/dmaxwell/rasterfx/internal/raster"
)

// Brightness adds params["value"] (default 0) to each of R, G and B.
func Brightness(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	value := p.Float("value", 0)
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return r + value, g + value, b + value
	}), nil
}

// Contrast applies the standard contrast curve around the 128 midpoint.
// params["value"] defaults to 0, which is the identity.
func Contrast(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	value := p.Float("value", 0)
	factor := (259 * (value + 255)) / (255 * (259 - value))
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return factor*(r-128) + 128, factor*(g-128) + 128, factor*(b-128) + 128
	}), nil
}

// Saturate scales each channel's distance from the pixel's luma.
// params["value"] is a percentage (default 100 = unchanged, 0 = grayscale).
func Saturate(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	factor := p.Float("value", 100) / 100
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		gray := luma(r, g, b)
		return gray + factor*(r-gray), gray + factor*(g-gray), gray + factor*(b-gray)
	}), nil
}

// HueRotate rotates hues by params["angle"] degrees (default 0) using the
// standard hue-rotation matrix on normalized channel values.
func HueRotate(src *raster.Buffer, p Params) (*raster.Buffer, error) {
	angle := p.Float("angle", 0) * math.Pi / 180
	cos := math.Cos(angle)
	sin := math.Sin(angle)

	m := [9]float64{
		0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928,
		0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283,
		0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072,
	}

	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		nr, ng, nb := r/255, g/255, b/255
		return 255 * (m[0]*nr + m[1]*ng + m[2]*nb),
			255 * (m[3]*nr + m[4]*ng + m[5]*nb),
			255 * (m[6]*nr + m[7]*ng + m[8]*nb)
	}), nil
}

// Grayscale assigns the pixel's luma to all three color channels.
func Grayscale(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		gray := luma(r, g, b)
		return gray, gray, gray
	}), nil
}

// Sepia applies the fixed sepia tone matrix.
func Sepia(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return 0.393*r + 0.769*g + 0.189*b,
			0.349*r + 0.686*g + 0.168*b,
			0.272*r + 0.534*g + 0.131*b
	}), nil
}

// Invert flips every color channel. Applying it twice restores the input
// exactly.
func Invert(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		return 255 - r, 255 - g, 255 - b
	}), nil
}

// Vintage shifts tones toward warm hues and washes the result toward its own
// luma at a 70/30 ratio.
func Vintage(src *raster.Buffer, _ Params) (*raster.Buffer, error) {
	return mapRGB(src, func(r, g, b float64) (float64, float64, float64) {
		sr := 0.9*r + 0.1*g
		sg := 0.1*r + 0.8*g + 0.1*b
		sb := 0.1*g + 0.7*b
		gray := luma(sr, sg, sb)
		return 0.7*sr + 0.3*gray, 0.7*sg + 0.3*gray, 0.7*sb + 0.3*gray
	}), nil
}

// mapRGB runs a per-pixel color transform over R, G and B, leaving alpha
// untouched and clamping every write.
func mapRGB(src *raster.Buffer, fn func(r, g, b float64) (float64, float64, float64)) *raster.Buffer {
	out := src.Clone()
	for i := 0; i < len(out.Pix); i += raster.PixelStride {
		r, g, b := fn(float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2]))
		out.Pix[i] = clampByte(r)
		out.Pix[i+1] = clampByte(g)
		out.Pix[i+2] = clampByte(b)
	}
	return out
}
