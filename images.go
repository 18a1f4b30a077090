package hws

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// ProcessedImage is an upload ready to be stored as an image override.
type ProcessedImage struct {
	DataURI string `json:"-"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Size    int    `json:"size"`
	Format  string `json:"format"`
}

// processImage decodes an image from src, downscales it to maxImageWidth and
// re-encodes it as a data URI. PNG and GIF sources stay PNG so logos keep
// their transparency; everything else becomes JPEG.
func processImage(src io.Reader) (ProcessedImage, error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return ProcessedImage{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var (
		buf  bytes.Buffer
		mime string
	)
	switch format {
	case "png", "gif":
		if err := png.Encode(&buf, img); err != nil {
			return ProcessedImage{}, fmt.Errorf("encode png: %w", err)
		}
		mime, format = "image/png", "png"
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return ProcessedImage{}, fmt.Errorf("encode jpeg: %w", err)
		}
		mime, format = "image/jpeg", "jpeg"
	}

	return ProcessedImage{
		DataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   w,
		Height:  h,
		Size:    buf.Len(),
		Format:  format,
	}, nil
}
