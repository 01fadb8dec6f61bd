package raster

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewBufferRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {5, -1}} {
		if _, err := NewBuffer(dims[0], dims[1]); err == nil {
			t.Errorf("expected error for %dx%d", dims[0], dims[1])
		}
	}

	buf, err := NewBuffer(3, 2)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	if len(buf.Pix) != 3*2*PixelStride {
		t.Fatalf("expected %d bytes, got %d", 3*2*PixelStride, len(buf.Pix))
	}
}

func TestValidate(t *testing.T) {
	var nilBuf *Buffer
	if err := nilBuf.Validate(); err == nil {
		t.Fatal("nil buffer must not validate")
	}
	if err := (&Buffer{Width: 0, Height: 0}).Validate(); !errors.Is(err, ErrEmptyBuffer) {
		t.Fatalf("expected ErrEmptyBuffer, got %v", err)
	}
	if err := (&Buffer{Width: 2, Height: 2, Pix: make([]byte, 3)}).Validate(); err == nil {
		t.Fatal("mismatched pixel slice must not validate")
	}

	buf, _ := NewBuffer(2, 2)
	if err := buf.Validate(); err != nil {
		t.Fatalf("valid buffer rejected: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	src, err := NewBuffer(4, 3)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	for i := range src.Pix {
		src.Pix[i] = byte(i)
	}

	clone := src.Clone()
	if !bytes.Equal(clone.Pix, src.Pix) {
		t.Fatal("clone must start identical")
	}

	clone.Pix[0] = 200
	if src.Pix[0] == 200 {
		t.Fatal("clone must not share backing memory")
	}

	var nilBuf *Buffer
	if nilBuf.Clone() != nil {
		t.Fatal("clone of nil is nil")
	}
}

func TestOffset(t *testing.T) {
	buf, err := NewBuffer(5, 4)
	if err != nil {
		t.Fatalf("new buffer: %v", err)
	}
	if got := buf.Offset(0, 0); got != 0 {
		t.Fatalf("offset(0,0) = %d", got)
	}
	if got := buf.Offset(2, 1); got != (1*5+2)*PixelStride {
		t.Fatalf("offset(2,1) = %d", got)
	}
	if got := buf.Offset(4, 3); got != len(buf.Pix)-PixelStride {
		t.Fatalf("offset of last pixel = %d, want %d", got, len(buf.Pix)-PixelStride)
	}
}
