// image.go - Base64 decoding and image preprocessing for better OCR accuracy

package processor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrInvalidBase64 marks payloads that are not well-formed base64 image data.
var ErrInvalidBase64 = errors.New("invalid base64 image data")

var base64Shape = regexp.MustCompile(`^([A-Za-z0-9+/]{4})*([A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{2}==)?$`)

// DecodeReceiptImage validates and decodes a base64 receipt image. The input
// may carry a data-URL prefix ("data:image/png;base64,..."), which is
// stripped; the MIME type is taken from the prefix when present and defaults
// to image/jpeg otherwise.
func DecodeReceiptImage(imageBase64 string) (data []byte, mimeType string, err error) {
	mimeType = "image/jpeg"
	payload := imageBase64

	if idx := strings.Index(imageBase64, ","); idx >= 0 {
		header := imageBase64[:idx]
		payload = imageBase64[idx+1:]
		if strings.HasPrefix(header, "data:") {
			if semi := strings.Index(header, ";"); semi > len("data:") {
				mimeType = header[len("data:"):semi]
			}
		}
	}

	if payload == "" || !base64Shape.MatchString(payload) {
		return nil, "", ErrInvalidBase64
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return data, mimeType, nil
}

// PreprocessImage downsizes and enhances a receipt image before it is sent
// to the vision model: resize to maxDimension (Lanczos), sharpen, boost
// contrast, grayscale. Bytes that do not decode as an image are returned
// unchanged so the model still sees the original payload.
func PreprocessImage(data []byte, mimeType string, maxDimension int) ([]byte, string) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data, mimeType
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		if bounds.Dx() > bounds.Dy() {
			img = imaging.Resize(img, maxDimension, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxDimension, imaging.Lanczos)
		}
	}

	img = imaging.Sharpen(img, 2.5)
	img = imaging.AdjustContrast(img, 40)
	img = imaging.Grayscale(img)

	var buf bytes.Buffer
	switch mimeType {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
		mimeType = "image/jpeg"
	}
	if err != nil {
		return data, mimeType
	}
	return buf.Bytes(), mimeType
}
