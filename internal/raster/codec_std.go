//go:build !govips || !cgo

package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"
)

func Startup() error { return nil }

func Shutdown() {}

// Decode parses an encoded image (png, jpeg, gif or webp) into a Buffer with
// non-premultiplied RGBA channels.
func Decode(data []byte) (*Buffer, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}

	bounds := src.Bounds()
	buf, err := NewBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	nrgba := &image.NRGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * PixelStride,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
	draw.Draw(nrgba, nrgba.Rect, src, bounds.Min, draw.Src)
	return buf, nil
}

// EncodePNG serializes a Buffer as PNG without touching pixel values.
func EncodePNG(buf *Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	img := &image.NRGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * PixelStride,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}

	var out bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}
