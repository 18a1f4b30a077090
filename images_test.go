package hws

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeTestImage(t *testing.T, w, h int, asPNG bool) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &buf
}

func decodeDataURI(t *testing.T, uri string) image.Config {
	t.Helper()
	_, payload, ok := strings.Cut(uri, ";base64,")
	if !ok {
		t.Fatalf("not a base64 data URI: %.40q", uri)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode image: %v", err)
	}
	return cfg
}

func TestProcessImageDownscales(t *testing.T) {
	out, err := processImage(encodeTestImage(t, 1600, 400, false))
	if err != nil {
		t.Fatalf("processImage: %v", err)
	}
	if out.Width != maxImageWidth || out.Height != 200 {
		t.Fatalf("size = %dx%d, want %dx200", out.Width, out.Height, maxImageWidth)
	}
	if !strings.HasPrefix(out.DataURI, "data:image/jpeg;base64,") {
		t.Fatalf("DataURI prefix = %.30q, want jpeg", out.DataURI)
	}
	cfg := decodeDataURI(t, out.DataURI)
	if cfg.Width != maxImageWidth || cfg.Height != 200 {
		t.Fatalf("encoded size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestProcessImageKeepsPNG(t *testing.T) {
	out, err := processImage(encodeTestImage(t, 120, 40, true))
	if err != nil {
		t.Fatalf("processImage: %v", err)
	}
	if out.Format != "png" {
		t.Fatalf("Format = %q, want png", out.Format)
	}
	if out.Width != 120 || out.Height != 40 {
		t.Fatalf("size = %dx%d, want 120x40 (small images are not resized)", out.Width, out.Height)
	}
	if !strings.HasPrefix(out.DataURI, "data:image/png;base64,") {
		t.Fatalf("DataURI prefix = %.30q, want png", out.DataURI)
	}
	if out.Size == 0 {
		t.Fatal("Size should be set")
	}
}

func TestProcessImageRejectsGarbage(t *testing.T) {
	if _, err := processImage(strings.NewReader("not an image")); err == nil {
		t.Fatal("expected an error for non-image input")
	}
}
