package config

import (
	"fmt"
	"sort"
	"time"
)

// Профили - варианты одной и той же эвристики: пороги, геометрия сканирования,
// поиск игрока или фиксированная позиция
var profiles = map[string]func(c *Config){
	// Контент-скрипт расширения: порог 200, игрок не ищется, окно с 20% ширины,
	// строки от groundY-50 до groundY+10
	"extension": func(c *Config) {
		c.Detection.Threshold = 200
		c.Detection.Ground.FallbackFraction = 0.5
		c.Detection.Player.Detect = false
		c.Detection.Player.DefaultXFraction = 0.2
		c.Detection.Scan.OffsetX = 0
		c.Detection.Scan.WidthFraction = 0.3
		c.Detection.Scan.Height = 60
		c.Detection.Scan.BelowGround = 10
		c.Gate.JumpCoefficient = 0.5
		c.Timing.PollInterval = 50 * time.Millisecond
		c.Timing.FallbackPeriod = 1500 * time.Millisecond
	},
	"adaptive": func(c *Config) {},
	"balanced": func(c *Config) {
		c.Detection.Threshold = 150
		c.Detection.Ground.FallbackFraction = 0.75
		c.Gate.JumpCoefficient = 0.4
		c.Timing.PollInterval = 100 * time.Millisecond
		c.Timing.FallbackPeriod = 2 * time.Second
	},
}

// Profiles возвращает имена профилей по алфавиту
func Profiles() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProfileConfig собирает полную конфигурацию профиля
func ProfileConfig(name string) (*Config, error) {
	apply, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown profile %q (known: %v)", name, Profiles())
	}
	c := baseConfig()
	c.Profile = name
	apply(c)
	return c, nil
}

func baseConfig() *Config {
	return &Config{
		LogFilePath: "logs/dinobot.log",
		Capture: Capture{
			Backend:   "screen",
			Region:    CoordinatesWithSize{X: 0, Y: 0, Width: 600, Height: 150},
			GameURL:   "https://chromedino.com",
			FramesDir: "data/frames",
		},
		Input: Input{
			Backend:  "arduino",
			Port:     "COM3",
			BaudRate: 9600,
			Key:      "space",
		},
		Detection: Detection{
			Threshold: 100,
			Ground: Ground{
				ProbeXFraction:   0.05,
				Margin:           5,
				FallbackFraction: 0.5,
			},
			Player: Player{
				Detect:           true,
				RegionFraction:   0.25,
				ClusterMin:       10,
				DefaultXFraction: 0.1,
			},
			Scan: Scan{
				OffsetX:       50,
				WidthFraction: 0.5,
				Height:        50,
			},
		},
		Timing: Timing{
			PollInterval:   30 * time.Millisecond,
			FallbackPeriod: 3 * time.Second,
			DebounceBase:   500 * time.Millisecond,
			ReleaseDelay:   30 * time.Millisecond,
			StartPress:     true,
		},
		Gate: Gate{
			JumpCoefficient: 0.3,
			MinDistance:     5,
			SpeedStep:       0.1,
			SpeedCap:        3.0,
			SpeedEvery:      10,
		},
	}
}
