package detector

import (
	"dinobot/internal/config"
	"dinobot/internal/frame"
	"dinobot/internal/obstacle"
	"dinobot/internal/scanner"
)

// Options - параметры одного прохода по кадру
type Options struct {
	Threshold    int
	Ground       scanner.GroundOptions
	Player       scanner.PlayerOptions
	DetectPlayer bool
	Geometry     obstacle.Geometry
}

// FromConfig переводит секцию detection в параметры сканеров
func FromConfig(d config.Detection) Options {
	return Options{
		Threshold: d.Threshold,
		Ground: scanner.GroundOptions{
			Threshold:        d.Threshold,
			ProbeXFraction:   d.Ground.ProbeXFraction,
			Margin:           d.Ground.Margin,
			FallbackFraction: d.Ground.FallbackFraction,
		},
		Player: scanner.PlayerOptions{
			Threshold:        d.Threshold,
			RegionFraction:   d.Player.RegionFraction,
			ClusterMin:       d.Player.ClusterMin,
			DefaultXFraction: d.Player.DefaultXFraction,
		},
		DetectPlayer: d.Player.Detect,
		Geometry: obstacle.Geometry{
			OffsetX:       d.Scan.OffsetX,
			WidthFraction: d.Scan.WidthFraction,
			Height:        d.Scan.Height,
			BelowGround:   d.Scan.BelowGround,
		},
	}
}

// Result - всё, что удалось узнать из кадра
type Result struct {
	GroundY   int
	Player    scanner.Player
	Window    obstacle.Window // номинальное окно, до обрезки по кадру
	ScanWidth int
	Obstacle  obstacle.Obstacle
	Found     bool
}

// Detect: земля -> игрок -> окно -> ближайшее препятствие
func Detect(f *frame.Frame, opts Options) (Result, error) {
	groundY, err := scanner.LocateGround(f, opts.Ground)
	if err != nil {
		return Result{}, err
	}

	player := scanner.Player{X: int(float64(f.Width) * opts.Player.DefaultXFraction), Y: groundY}
	if opts.DetectPlayer {
		player, err = scanner.LocatePlayer(f, groundY, opts.Player)
		if err != nil {
			return Result{}, err
		}
	}

	win := obstacle.WindowFor(f, player, groundY, opts.Geometry)
	obs, found, err := obstacle.Scan(f, win, opts.Threshold)
	if err != nil {
		return Result{}, err
	}

	return Result{
		GroundY:   groundY,
		Player:    player,
		Window:    win,
		ScanWidth: win.Width,
		Obstacle:  obs,
		Found:     found,
	}, nil
}
