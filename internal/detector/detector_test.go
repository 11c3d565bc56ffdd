package detector

import (
	"errors"
	"testing"

	"dinobot/internal/config"
	"dinobot/internal/frame"
	"dinobot/internal/obstacle"
)

func blank(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.Filled(320, 200, 247, 247, 247, 255)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestDetectAirborneObstacle(t *testing.T) {
	opts := FromConfig(config.DefaultConfig().Detection)
	f := blank(t)
	// земли нет -> y=100; игрока нет -> x=32; окно x=82 y=50 160x50
	for y := 60; y < 100; y++ {
		f.Set(82+40, y, 83, 83, 83, 255)
	}

	res, err := Detect(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.GroundY != 100 {
		t.Fatalf("ground = %d, want 100", res.GroundY)
	}
	if res.Player.Found || res.Player.X != 32 {
		t.Fatalf("player = %+v, want default x=32", res.Player)
	}
	if res.Window != (obstacle.Window{X: 82, Y: 50, Width: 160, Height: 50}) {
		t.Fatalf("window = %+v", res.Window)
	}
	if !res.Found || res.Obstacle.Distance != 40 || res.Obstacle.TopRow != 10 {
		t.Fatalf("obstacle = %+v found=%v", res.Obstacle, res.Found)
	}
	if res.Obstacle.Kind != obstacle.Airborne {
		t.Fatalf("kind = %v, want airborne", res.Obstacle.Kind)
	}
	if res.ScanWidth != 160 {
		t.Fatalf("scan width = %d, want 160", res.ScanWidth)
	}
}

func TestDetectUsesFoundPlayer(t *testing.T) {
	opts := FromConfig(config.DefaultConfig().Detection)
	f := blank(t)
	for y := 60; y < 100; y++ {
		for x := 20; x < 40; x++ {
			f.Set(x, y, 83, 83, 83, 255)
		}
	}

	res, err := Detect(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Player.Found {
		t.Fatal("player not found")
	}
	if res.Window.X != res.Player.X+50 {
		t.Fatalf("window x = %d, want player x + 50 = %d", res.Window.X, res.Player.X+50)
	}
	if res.Found {
		t.Fatalf("player sprite leaked into the scan window: %+v", res.Obstacle)
	}
}

func TestDetectExtensionProfileIgnoresSprites(t *testing.T) {
	cfg, err := config.ProfileConfig("extension")
	if err != nil {
		t.Fatal(err)
	}
	opts := FromConfig(cfg.Detection)
	f := blank(t)

	res, err := Detect(f, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Player.X != 64 || res.Window.X != 64 || res.Window.Width != 96 {
		t.Fatalf("unexpected geometry: player %+v window %+v", res.Player, res.Window)
	}
	// земля не найдена -> y=100, окно захватывает 10 px под ней
	if res.Window.Y != 50 || res.Window.Height != 60 {
		t.Fatalf("window rows %d..%d, want 50..110", res.Window.Y, res.Window.Y+res.Window.Height)
	}
}

func TestDetectInvalidFrame(t *testing.T) {
	_, err := Detect(&frame.Frame{}, FromConfig(config.DefaultConfig().Detection))
	if !errors.Is(err, frame.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
}
