package helpers

import "image"

// GetPixelColor получает цвет пикселя по координатам; вне картинки ok=false
func GetPixelColor(img image.Image, x int, y int) (r, g, b int, ok bool) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return 0, 0, 0, false
	}
	cr, cg, cb, _ := img.At(x, y).RGBA()
	return int(cr >> 8), int(cg >> 8), int(cb >> 8), true
}

// IsDarkPixel - все три канала строго ниже порога
func IsDarkPixel(img image.Image, x, y, threshold int) bool {
	r, g, b, ok := GetPixelColor(img, x, y)
	return ok && r < threshold && g < threshold && b < threshold
}
