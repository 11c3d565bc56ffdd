package obstacle

import (
	"dinobot/internal/frame"
	"dinobot/internal/scanner"
)

// Kind - тип препятствия по высоте верхнего тёмного пикселя
type Kind int

const (
	GroundLevel Kind = iota // кактус
	Airborne                // птица
)

func (k Kind) String() string {
	switch k {
	case Airborne:
		return "airborne"
	default:
		return "ground-level"
	}
}

// Window - прямоугольник сканирования в координатах кадра
type Window struct {
	X, Y, Width, Height int
}

// Geometry задаёт окно относительно игрока и земли
type Geometry struct {
	OffsetX       int
	WidthFraction float64
	Height        int
	BelowGround   int // на сколько пикселей окно заходит ниже линии земли
}

// Obstacle - ближайший найденный объект перед игроком
type Obstacle struct {
	Distance       int // номер столбца от левого края окна
	TopRow         int // верхний тёмный пиксель в этом столбце, от верха окна
	VerticalOffset int // Height - TopRow, по номинальной высоте окна
	Kind           Kind
}

// WindowFor ставит окно правее игрока, нижней гранью на BelowGround ниже линии земли.
// Окно номинальное: по кадру его обрезает Scan.
func WindowFor(f *frame.Frame, player scanner.Player, groundY int, g Geometry) Window {
	return Window{
		X:      player.X + g.OffsetX,
		Y:      groundY + g.BelowGround - g.Height,
		Width:  int(float64(f.Width) * g.WidthFraction),
		Height: g.Height,
	}
}

// Clip обрезает окно по границам кадра; пустое окно получает нулевые размеры
func (w Window) Clip(width, height int) Window {
	if w.X < 0 {
		w.Width += w.X
		w.X = 0
	}
	if w.Y < 0 {
		w.Height += w.Y
		w.Y = 0
	}
	if w.X+w.Width > width {
		w.Width = width - w.X
	}
	if w.Y+w.Height > height {
		w.Height = height - w.Y
	}
	if w.Width < 0 {
		w.Width = 0
	}
	if w.Height < 0 {
		w.Height = 0
	}
	return w
}

// Empty - в окне нет ни одного пикселя
func (w Window) Empty() bool {
	return w.Width <= 0 || w.Height <= 0
}

// Scan идёт по столбцам окна слева направо; первый столбец с тёмным пикселем -
// ближайшее препятствие. Просматривается только часть окна внутри кадра, но
// дистанция, строка и тип считаются от номинального окна: строка ровно на
// Height/2 относится к нижней половине, даже если верх окна срезан кадром.
func Scan(f *frame.Frame, win Window, threshold int) (Obstacle, bool, error) {
	if err := f.Validate(); err != nil {
		return Obstacle{}, false, err
	}
	visible := win.Clip(f.Width, f.Height)
	if visible.Empty() {
		return Obstacle{}, false, nil
	}

	for x := visible.X; x < visible.X+visible.Width; x++ {
		for y := visible.Y; y < visible.Y+visible.Height; y++ {
			if !f.IsDark(x, y, threshold) {
				continue
			}
			row := y - win.Y
			kind := GroundLevel
			if 2*row < win.Height {
				kind = Airborne
			}
			return Obstacle{
				Distance:       x - win.X,
				TopRow:         row,
				VerticalOffset: win.Height - row,
				Kind:           kind,
			}, true, nil
		}
	}
	return Obstacle{}, false, nil
}
