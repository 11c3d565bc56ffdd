package frame

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
)

// ErrInvalidInput возвращается для пустого или обрезанного буфера пикселей
var ErrInvalidInput = errors.New("invalid input: empty pixel buffer")

// Frame - один снятый кадр: RGBA байты построчно, шаг строки Width*4
type Frame struct {
	Width  int
	Height int
	Pix    []byte
}

// New проверяет размеры и оборачивает буфер без копирования
func New(width, height int, pix []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidInput, width, height)
	}
	if len(pix) < width*height*4 {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidInput, width*height*4, len(pix))
	}
	return &Frame{Width: width, Height: height, Pix: pix}, nil
}

// FromImage переводит снятое изображение в кадр с началом координат в (0, 0)
func FromImage(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, ErrInvalidInput
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidInput, bounds)
	}

	// kbinani/screenshot отдаёт *image.RGBA, копируем только при смещённых границах или паддинге
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) && rgba.Stride == bounds.Dx()*4 {
		return New(bounds.Dx(), bounds.Dy(), rgba.Pix)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return New(bounds.Dx(), bounds.Dy(), rgba.Pix)
}

// Validate нужен функциям, которые принимают кадр по указателю
func (f *Frame) Validate() error {
	if f == nil {
		return ErrInvalidInput
	}
	_, err := New(f.Width, f.Height, f.Pix)
	return err
}

// At возвращает каналы пикселя, ok=false за пределами кадра
func (f *Frame) At(x, y int) (r, g, b, a uint8, ok bool) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0, 0, 0, 0, false
	}
	i := (y*f.Width + x) * 4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3], true
}

// IsDark - непрозрачный пиксель, у которого все три канала строго ниже порога
func (f *Frame) IsDark(x, y, threshold int) bool {
	r, g, b, a, ok := f.At(x, y)
	if !ok || a == 0 {
		return false
	}
	return int(r) < threshold && int(g) < threshold && int(b) < threshold
}

// Set используется тестами и отладочной отрисовкой
func (f *Frame) Set(x, y int, r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := (y*f.Width + x) * 4
	f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = r, g, b, a
}

// Image отдаёт кадр как *image.RGBA без копирования
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// Filled создаёт кадр, залитый одним цветом
func Filled(width, height int, r, g, b, a uint8) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidInput, width, height)
	}
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return New(width, height, pix)
}

// SavePNG сохраняет кадр в файл
func (f *Frame) SavePNG(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, f.Image()); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// LoadPNG читает кадр из PNG файла
func LoadPNG(filename string) (*Frame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img)
}
