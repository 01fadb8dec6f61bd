//go:build govips && cgo

package raster

import (
	"fmt"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	startupOnce sync.Once
	shutdownMu  sync.Mutex
	started     bool
)

func Startup() error {
	startupOnce.Do(func() {
		vips.Startup(&vips.Config{
			MaxCacheFiles: 0,
			MaxCacheMem:   128 * 1024 * 1024,
			MaxCacheSize:  100,
		})

		shutdownMu.Lock()
		started = true
		shutdownMu.Unlock()
	})
	return nil
}

func Shutdown() {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if !started {
		return
	}
	vips.Shutdown()
	started = false
}

// Decode parses an encoded image through libvips into a non-premultiplied
// RGBA Buffer. Effect math stays in pure Go either way; vips only does codec
// work here.
func Decode(data []byte) (*Buffer, error) {
	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	defer img.Close()

	if err := img.ToColorSpace(vips.InterpretationSRGB); err != nil {
		return nil, fmt.Errorf("convert colorspace: %w", err)
	}
	if !img.HasAlpha() {
		if err := img.AddAlpha(); err != nil {
			return nil, fmt.Errorf("add alpha band: %w", err)
		}
	}

	raw, err := img.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("export raw pixels: %w", err)
	}

	buf, err := NewBuffer(img.Width(), img.Height())
	if err != nil {
		return nil, err
	}
	if len(raw) != len(buf.Pix) {
		return nil, fmt.Errorf("unexpected raw pixel size %d for %dx%d", len(raw), buf.Width, buf.Height)
	}
	copy(buf.Pix, raw)
	return buf, nil
}

func EncodePNG(buf *Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	img, err := vips.NewImageFromMemory(buf.Pix, buf.Width, buf.Height, PixelStride)
	if err != nil {
		return nil, fmt.Errorf("wrap raw pixels: %w", err)
	}
	defer img.Close()

	data, _, err := img.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return data, nil
}
