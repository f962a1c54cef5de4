package processor

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

func TestDecodeReceiptImage(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	t.Run("plain_base64", func(t *testing.T) {
		data, mime, err := DecodeReceiptImage(payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "fake image bytes" {
			t.Errorf("decoded bytes mismatch: %q", data)
		}
		if mime != "image/jpeg" {
			t.Errorf("expected default mime image/jpeg, got %q", mime)
		}
	})

	t.Run("data_url_prefix", func(t *testing.T) {
		data, mime, err := DecodeReceiptImage("data:image/png;base64," + payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "fake image bytes" {
			t.Errorf("decoded bytes mismatch: %q", data)
		}
		if mime != "image/png" {
			t.Errorf("expected mime from prefix, got %q", mime)
		}
	})

	t.Run("invalid_characters", func(t *testing.T) {
		_, _, err := DecodeReceiptImage("!!!not-base64!!!")
		if !errors.Is(err, ErrInvalidBase64) {
			t.Errorf("expected ErrInvalidBase64, got %v", err)
		}
	})

	t.Run("empty_payload", func(t *testing.T) {
		_, _, err := DecodeReceiptImage("")
		if !errors.Is(err, ErrInvalidBase64) {
			t.Errorf("expected ErrInvalidBase64, got %v", err)
		}
	})
}

func TestPreprocessImagePassthroughForNonImage(t *testing.T) {
	input := []byte("definitely not an image")
	out, mime := PreprocessImage(input, "image/jpeg", 2000)
	if !bytes.Equal(out, input) {
		t.Error("non-decodable bytes must pass through unchanged")
	}
	if mime != "image/jpeg" {
		t.Errorf("mime must be preserved, got %q", mime)
	}
}

func TestPreprocessImageResizesLargeImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	out, mime := PreprocessImage(buf.Bytes(), "image/png", 200)
	if mime != "image/png" {
		t.Errorf("expected image/png, got %q", mime)
	}

	processed, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("processed output must decode: %v", err)
	}
	if processed.Bounds().Dx() != 200 {
		t.Errorf("expected width 200 after resize, got %d", processed.Bounds().Dx())
	}
}
