package screen

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"dinobot/internal/config"
	"dinobot/internal/helpers"
)

var ErrGameNotFound = errors.New("game area not found")

var captureRect = screenshot.CaptureRect

// CaptureFullScreen захватывает скриншот основного дисплея
func CaptureFullScreen() (image.Image, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, errors.New("no active displays")
	}
	img, err := captureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return nil, fmt.Errorf("failed to capture full screen: %w", err)
	}
	return img, nil
}

// LocateOptions - как искать игру на снимке экрана
type LocateOptions struct {
	Threshold int // порог тёмного пикселя
	MinRun    int // минимальная длина линии земли
	Above     int // высота области над линией земли
	Below     int // запас под линией земли
}

// LocateGameArea ищет снизу вверх первую длинную тёмную горизонтальную полосу -
// линию земли - и строит вокруг неё область захвата
func LocateGameArea(img image.Image, opts LocateOptions) (config.CoordinatesWithSize, error) {
	bounds := img.Bounds()
	for y := bounds.Max.Y - 1; y >= bounds.Min.Y; y-- {
		start, count := -1, 0
		bestStart, bestLen := -1, 0
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if helpers.IsDarkPixel(img, x, y, opts.Threshold) {
				if count == 0 {
					start = x
				}
				count++
				if count > bestLen {
					bestStart, bestLen = start, count
				}
			} else {
				count = 0
			}
		}
		if bestLen < opts.MinRun {
			continue
		}

		top := y - opts.Above
		if top < bounds.Min.Y {
			top = bounds.Min.Y
		}
		bottom := y + opts.Below
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		return config.CoordinatesWithSize{
			X:      bestStart,
			Y:      top,
			Width:  bestLen,
			Height: bottom - top,
		}, nil
	}
	return config.CoordinatesWithSize{}, fmt.Errorf("%w: no dark line of %d px", ErrGameNotFound, opts.MinRun)
}

// LocateOnScreen снимает экран и ищет на нём игру
func LocateOnScreen(opts LocateOptions) (config.CoordinatesWithSize, error) {
	img, err := CaptureFullScreen()
	if err != nil {
		return config.CoordinatesWithSize{}, err
	}
	return LocateGameArea(img, opts)
}
