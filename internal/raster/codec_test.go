//go:build !govips || !cgo

package raster

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src, err := NewBuffer(6, 4)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	for i := range src.Pix {
		src.Pix[i] = byte((i * 29) % 256)
	}
	// Keep alpha opaque so PNG round-trips the color bytes exactly.
	for i := 3; i < len(src.Pix); i += PixelStride {
		src.Pix[i] = 255
	}

	encoded, err := EncodePNG(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Width != src.Width || decoded.Height != src.Height {
		t.Fatalf("round trip changed dimensions to %dx%d", decoded.Width, decoded.Height)
	}
	if !bytes.Equal(decoded.Pix, src.Pix) {
		t.Fatal("round trip changed pixel data")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestEncodeRejectsInvalidBuffer(t *testing.T) {
	if _, err := EncodePNG(&Buffer{Width: 2, Height: 2, Pix: []byte{1}}); err == nil {
		t.Fatal("expected encode to reject a malformed buffer")
	}
	if _, err := EncodePNG(nil); err == nil {
		t.Fatal("expected encode to reject nil")
	}
}
