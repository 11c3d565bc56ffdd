package obstacle

import (
	"errors"
	"fmt"
	"testing"

	"dinobot/internal/frame"
	"dinobot/internal/scanner"
)

func lightFrame(t *testing.T, w, h int) *frame.Frame {
	t.Helper()
	f, err := frame.Filled(w, h, 247, 247, 247, 255)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestScanLightFrameFindsNothing(t *testing.T) {
	f := lightFrame(t, 320, 200)
	_, found, err := Scan(f, Window{X: 50, Y: 50, Width: 160, Height: 50}, 100)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("light frame must not contain obstacles")
	}
}

func TestScanSingleColumnDistance(t *testing.T) {
	win := Window{X: 50, Y: 50, Width: 160, Height: 50}
	for _, d := range []int{0, 1, 17, 40, 159} {
		t.Run(fmt.Sprintf("distance %d", d), func(t *testing.T) {
			f := lightFrame(t, 320, 200)
			for y := win.Y + 30; y < win.Y+win.Height; y++ {
				f.Set(win.X+d, y, 83, 83, 83, 255)
			}

			obs, found, err := Scan(f, win, 100)
			if err != nil {
				t.Fatal(err)
			}
			if !found {
				t.Fatal("obstacle not found")
			}
			if obs.Distance != d {
				t.Fatalf("distance = %d, want %d", obs.Distance, d)
			}
			if obs.TopRow != 30 || obs.VerticalOffset != 20 {
				t.Fatalf("top row %d offset %d, want 30 and 20", obs.TopRow, obs.VerticalOffset)
			}
			if obs.Kind != GroundLevel {
				t.Fatalf("kind = %v, want ground-level", obs.Kind)
			}
		})
	}
}

func TestScanNearestColumnWins(t *testing.T) {
	win := Window{X: 0, Y: 0, Width: 100, Height: 50}
	f := lightFrame(t, 100, 50)
	f.Set(70, 5, 0, 0, 0, 255)
	f.Set(30, 45, 0, 0, 0, 255)

	obs, found, _ := Scan(f, win, 100)
	if !found || obs.Distance != 30 {
		t.Fatalf("got distance %d found=%v, want 30", obs.Distance, found)
	}
}

func TestScanClassificationBoundary(t *testing.T) {
	var tests = []struct {
		row  int
		want Kind
	}{
		{0, Airborne},
		{24, Airborne},
		{25, GroundLevel}, // ровно Height/2
		{49, GroundLevel},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("row %d", tt.row), func(t *testing.T) {
			f := lightFrame(t, 100, 50)
			f.Set(10, tt.row, 0, 0, 0, 255)
			obs, found, _ := Scan(f, Window{Width: 100, Height: 50}, 100)
			if !found {
				t.Fatal("not found")
			}
			if obs.Kind != tt.want {
				t.Fatalf("row %d: got %v, want %v", tt.row, obs.Kind, tt.want)
			}
		})
	}
}

func TestScanSkipsTransparentPixels(t *testing.T) {
	f := lightFrame(t, 50, 20)
	f.Set(5, 5, 0, 0, 0, 0)
	if _, found, _ := Scan(f, Window{Width: 50, Height: 20}, 100); found {
		t.Fatal("transparent pixel must not count as obstacle")
	}
}

func TestScanInvalidInput(t *testing.T) {
	if _, _, err := Scan(&frame.Frame{Width: 0, Height: 10}, Window{Width: 1, Height: 1}, 100); !errors.Is(err, frame.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	f := lightFrame(t, 120, 60)
	f.Set(44, 12, 10, 10, 10, 255)
	win := Window{X: 10, Y: 0, Width: 100, Height: 60}

	a, fa, _ := Scan(f, win, 100)
	b, fb, _ := Scan(f, win, 100)
	if a != b || fa != fb {
		t.Fatalf("results differ: %+v/%v vs %+v/%v", a, fa, b, fb)
	}
}

func TestWindowForKeepsNominalGeometry(t *testing.T) {
	f := lightFrame(t, 320, 200)
	g := Geometry{OffsetX: 50, WidthFraction: 0.5, Height: 50}

	w := WindowFor(f, scanner.Player{X: 250, Y: 100}, 100, g)
	if w != (Window{X: 300, Y: 50, Width: 160, Height: 50}) {
		t.Fatalf("got %+v, want {300 50 160 50}", w)
	}
	if c := w.Clip(f.Width, f.Height); c.Width != 20 {
		t.Fatalf("clipped width = %d, want 20", c.Width)
	}

	w = WindowFor(f, scanner.Player{X: 0}, 20, g)
	if w.Y != -30 || w.Height != 50 {
		t.Fatalf("got %+v, want y=-30 height=50", w)
	}
	if c := w.Clip(f.Width, f.Height); c.Y != 0 || c.Height != 20 {
		t.Fatalf("clipped %+v, want y=0 height=20", c)
	}

	w = WindowFor(f, scanner.Player{X: 400}, 100, g)
	if !w.Clip(f.Width, f.Height).Empty() {
		t.Fatalf("window right of the frame must be empty, got %+v", w)
	}
}

func TestWindowForBelowGround(t *testing.T) {
	f := lightFrame(t, 320, 200)
	// строки от groundY-50 до groundY+10
	g := Geometry{WidthFraction: 0.3, Height: 60, BelowGround: 10}

	w := WindowFor(f, scanner.Player{X: 64}, 100, g)
	if w.Y != 50 || w.Y+w.Height != 110 {
		t.Fatalf("got %+v, want rows 50..110", w)
	}
}

func TestScanClassifiesAgainstNominalHeight(t *testing.T) {
	f := lightFrame(t, 100, 100)
	// окно 50 px, верхние 30 строк за краем кадра
	win := Window{X: 0, Y: -30, Width: 100, Height: 50}

	// строка кадра 0 = строка окна 30: нижняя половина номинального окна,
	// хотя в видимой части (20 строк) это был бы самый верх
	f.Set(10, 0, 0, 0, 0, 255)
	obs, found, err := Scan(f, win, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("not found")
	}
	if obs.TopRow != 30 || obs.VerticalOffset != 20 || obs.Kind != GroundLevel {
		t.Fatalf("got %+v, want top row 30 offset 20 ground-level", obs)
	}
	if obs.Distance != 10 {
		t.Fatalf("distance = %d, want 10", obs.Distance)
	}
}
