package screen

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"dinobot/internal/config"
)

func page(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)
	return img
}

func TestLocateGameAreaFindsGroundLine(t *testing.T) {
	img := page(800, 600)
	for x := 100; x < 700; x++ {
		img.Set(x, 400, color.RGBA{83, 83, 83, 255})
	}
	// короткий текст ниже не должен считаться землёй
	for x := 10; x < 60; x++ {
		img.Set(x, 550, color.RGBA{0, 0, 0, 255})
	}

	got, err := LocateGameArea(img, LocateOptions{Threshold: 100, MinRun: 300, Above: 140, Below: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := config.CoordinatesWithSize{X: 100, Y: 260, Width: 600, Height: 150}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLocateGameAreaClampsToImage(t *testing.T) {
	img := page(400, 100)
	for x := 0; x < 400; x++ {
		img.Set(x, 20, color.RGBA{0, 0, 0, 255})
	}
	got, err := LocateGameArea(img, LocateOptions{Threshold: 100, MinRun: 200, Above: 50, Below: 200})
	if err != nil {
		t.Fatal(err)
	}
	if got.Y != 0 || got.Height != 100 {
		t.Fatalf("got %+v, want y=0 height=100", got)
	}
}

func TestLocateGameAreaNotFound(t *testing.T) {
	_, err := LocateGameArea(page(200, 100), LocateOptions{Threshold: 100, MinRun: 50})
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}
