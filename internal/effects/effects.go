// Package effects is a catalogue of pure raster-to-raster pixel
// transformations. Every effect takes an input buffer plus loosely typed
// parameters and produces a fresh buffer of identical dimensions; inputs are
// never mutated. Channel writes are clamped to [0, 255].
package effects

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/dmaxwell/rasterfx/internal/raster"
)

var ErrUnknownEffect = errors.New("unknown effect")

// Params carries per-effect settings as decoded from JSON. Missing or
// malformed values fall back to per-effect defaults rather than failing.
type Params map[string]any

func (p Params) Float(key string, fallback float64) float64 {
	value, ok := p[key]
	if !ok {
		return fallback
	}
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

func (p Params) Int(key string, fallback int) int {
	return int(math.Round(p.Float(key, float64(fallback))))
}

// Func is a single effect: pure, deterministic for fixed params (noise aside),
// and dimension-preserving.
type Func func(src *raster.Buffer, p Params) (*raster.Buffer, error)

var catalogue = map[string]Func{
	"brightness": Brightness,
	"contrast":   Contrast,
	"saturate":   Saturate,
	"hue-rotate": HueRotate,
	"grayscale":  Grayscale,
	"sepia":      Sepia,
	"invert":     Invert,
	"vintage":    Vintage,
	"noise":      Noise,
	"vignette":   Vignette,
	"sharpen":    Sharpen,
	"emboss":     Emboss,
	"edge":       Edge,
	"blur":       Blur,
}

// Apply looks up name in the catalogue and runs it. An unrecognized name
// yields ErrUnknownEffect; the dispatch layer turns that into a pass-through
// error outcome rather than a fault.
func Apply(name string, src *raster.Buffer, p Params) (*raster.Buffer, error) {
	fn, ok := catalogue[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if p == nil {
		p = Params{}
	}
	return fn(src, p)
}

func Known(name string) bool {
	_, ok := catalogue[name]
	return ok
}

func Names() []string {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clampByte(v float64) byte {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
