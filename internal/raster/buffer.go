package raster

import (
	"errors"
	"fmt"
)

// Channels per pixel: R, G, B, A interleaved, one byte each.
const PixelStride = 4

var ErrEmptyBuffer = errors.New("raster buffer has zero dimensions")

// Buffer is a width x height grid of RGBA byte pixels, row-major with the
// origin at the top-left corner. Effects never change Width or Height.
type Buffer struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pix    []byte `json:"pixels"`
}

func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%d", width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*PixelStride),
	}, nil
}

func (b *Buffer) Validate() error {
	if b == nil {
		return errors.New("raster buffer is nil")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return ErrEmptyBuffer
	}
	if want := b.Width * b.Height * PixelStride; len(b.Pix) != want {
		return fmt.Errorf("raster buffer size mismatch: have %d bytes, want %d for %dx%d",
			len(b.Pix), want, b.Width, b.Height)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with the receiver. The bridge
// relies on this for copy-on-send semantics across the dispatch boundary.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// Offset returns the index of the R byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * PixelStride
}
