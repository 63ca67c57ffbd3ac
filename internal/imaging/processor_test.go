// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(width, height)); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessorIsSupportedType(t *testing.T) {
	p := NewProcessor(t.TempDir())

	tests := []struct {
		mimeType string
		want     bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsSupportedType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessPostImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	result, err := p.ProcessPostImage(bytes.NewReader(encodeTestPNG(t, 100, 80)))
	if err != nil {
		t.Fatalf("ProcessPostImage: %v", err)
	}

	if result.Width != 100 || result.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 100x80", result.Width, result.Height)
	}
	if result.MimeType != MimeTypePNG {
		t.Errorf("MimeType = %q, want %q", result.MimeType, MimeTypePNG)
	}
	if !strings.HasPrefix(result.Filename, "posts"+string(os.PathSeparator)) {
		t.Errorf("Filename = %q, want posts/ prefix", result.Filename)
	}

	if _, err := os.Stat(filepath.Join(dir, result.Filename)); err != nil {
		t.Errorf("saved image missing: %v", err)
	}
}

func TestProcessPostImageDownscales(t *testing.T) {
	p := NewProcessor(t.TempDir())

	result, err := p.ProcessPostImage(bytes.NewReader(encodeTestPNG(t, MaxWidth*2, 100)))
	if err != nil {
		t.Fatalf("ProcessPostImage: %v", err)
	}

	if result.Width > MaxWidth {
		t.Errorf("width = %d, want <= %d", result.Width, MaxWidth)
	}
}

func TestProcessPostImageRejectsGarbage(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.ProcessPostImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("ProcessPostImage should reject non-image data")
	}
}

func TestDeletePostImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	result, err := p.ProcessPostImage(bytes.NewReader(encodeTestPNG(t, 10, 10)))
	if err != nil {
		t.Fatalf("ProcessPostImage: %v", err)
	}

	if err := p.DeletePostImage(result.Filename); err != nil {
		t.Fatalf("DeletePostImage: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, result.Filename)); !os.IsNotExist(err) {
		t.Error("image still exists after delete")
	}

	// Deleting twice is fine
	if err := p.DeletePostImage(result.Filename); err != nil {
		t.Errorf("DeletePostImage second call: %v", err)
	}

	// Path traversal is rejected
	if err := p.DeletePostImage("../outside.png"); err == nil {
		t.Error("DeletePostImage should reject traversal paths")
	}
}

func TestApplyOrientation(t *testing.T) {
	// Verify no panics and correct dimension swaps for rotated orientations
	img := createTestImage(20, 10)

	for _, orientation := range []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9} {
		result := applyOrientation(img, orientation)
		if result == nil {
			t.Fatalf("applyOrientation(%d) returned nil", orientation)
		}
		b := result.Bounds()
		switch orientation {
		case 5, 6, 7, 8:
			if b.Dx() != 10 || b.Dy() != 20 {
				t.Errorf("orientation %d: bounds = %dx%d, want 10x20", orientation, b.Dx(), b.Dy())
			}
		default:
			if b.Dx() != 20 || b.Dy() != 10 {
				t.Errorf("orientation %d: bounds = %dx%d, want 20x10", orientation, b.Dx(), b.Dy())
			}
		}
	}
}
