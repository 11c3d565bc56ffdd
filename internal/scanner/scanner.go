package scanner

import (
	"dinobot/internal/frame"
)

// GroundOptions - параметры поиска линии земли
type GroundOptions struct {
	Threshold        int
	ProbeXFraction   float64 // столбец для сканирования, доля ширины кадра
	Margin           int     // насколько поднять найденную линию
	FallbackFraction float64 // линия по умолчанию, доля высоты кадра
}

// PlayerOptions - параметры поиска спрайта игрока
type PlayerOptions struct {
	Threshold        int
	RegionFraction   float64 // левая часть кадра, где ищется игрок
	ClusterMin       int     // сколько тёмных пикселей 5x5 должно быть больше
	DefaultXFraction float64
}

// Player - найденная (или принятая по умолчанию) позиция игрока
type Player struct {
	X, Y  int
	Found bool
}

const clusterRadius = 2

// LocateGround идёт по одному столбцу снизу вверх до первого тёмного пикселя
func LocateGround(f *frame.Frame, opts GroundOptions) (int, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}

	x := int(float64(f.Width) * opts.ProbeXFraction)
	for y := f.Height - 1; y >= 0; y-- {
		if f.IsDark(x, y, opts.Threshold) {
			groundY := y - opts.Margin
			if groundY < 0 {
				groundY = 0
			}
			return groundY, nil
		}
	}

	return int(float64(f.Height) * opts.FallbackFraction), nil
}

// LocatePlayer ищет над землёй первый тёмный пиксель, вокруг которого плотное
// скопление тёмных пикселей; одиночный шум игнорируется
func LocatePlayer(f *frame.Frame, groundY int, opts PlayerOptions) (Player, error) {
	if err := f.Validate(); err != nil {
		return Player{}, err
	}

	fallback := Player{X: int(float64(f.Width) * opts.DefaultXFraction), Y: groundY}

	maxX := int(float64(f.Width) * opts.RegionFraction)
	if maxX > f.Width {
		maxX = f.Width
	}
	maxY := groundY
	if maxY > f.Height {
		maxY = f.Height
	}

	for y := 0; y < maxY; y++ {
		for x := 0; x < maxX; x++ {
			if !f.IsDark(x, y, opts.Threshold) {
				continue
			}
			if darkNeighbours(f, x, y, opts.Threshold) > opts.ClusterMin {
				return Player{X: x, Y: y, Found: true}, nil
			}
		}
	}
	return fallback, nil
}

// darkNeighbours считает тёмные пиксели в квадрате 5x5 с центром в (x, y)
func darkNeighbours(f *frame.Frame, x, y, threshold int) int {
	count := 0
	for dy := -clusterRadius; dy <= clusterRadius; dy++ {
		for dx := -clusterRadius; dx <= clusterRadius; dx++ {
			if f.IsDark(x+dx, y+dy, threshold) {
				count++
			}
		}
	}
	return count
}
