package browser

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"dinobot/internal/config"
	"dinobot/internal/logger"
)

func TestCropRegion(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	got := crop(img, config.CoordinatesWithSize{X: 100, Y: 200, Width: 600, Height: 150})
	if got.Bounds() != image.Rect(100, 200, 700, 350) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
}

func TestCropClipsToScreenshot(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	got := crop(img, config.CoordinatesWithSize{X: 700, Y: 500, Width: 600, Height: 150})
	if got.Bounds() != image.Rect(700, 500, 800, 600) {
		t.Fatalf("bounds = %v", got.Bounds())
	}
}

func TestCropEmptyRegionKeepsImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	if got := crop(img, config.CoordinatesWithSize{}); got != image.Image(img) {
		t.Fatal("expected the original image")
	}
}

func TestLookupKey(t *testing.T) {
	def, err := lookupKey("space")
	if err != nil {
		t.Fatal(err)
	}
	if def.key != " " || def.code != "Space" || def.vk != 32 {
		t.Fatalf("space = %+v", def)
	}
	if _, err := lookupKey("f13"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestNotStarted(t *testing.T) {
	b := NewBrowser(config.Capture{}, logger.NewWriterLogger(&bytes.Buffer{}))
	if _, err := b.CaptureFrame(context.Background()); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("capture: got %v", err)
	}
	if err := b.Press(context.Background(), "space"); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("press: got %v", err)
	}
}
