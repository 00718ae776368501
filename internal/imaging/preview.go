package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// PreviewResult is a PNG rendition of an image, small enough to return
// inline from a tool call.
type PreviewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Preview scales img down to fit within maxWidth by maxHeight, keeping its
// aspect ratio, and encodes it as base64 PNG. Images that already fit are
// not scaled. Nearest-neighbor sampling keeps tile edges sharp.
func Preview(img image.Image, maxWidth, maxHeight int) (*PreviewResult, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", maxWidth, maxHeight)
	}

	scaled := imaging.Fit(img, maxWidth, maxHeight, imaging.NearestNeighbor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &PreviewResult{
		Width:       scaled.Bounds().Dx(),
		Height:      scaled.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}
