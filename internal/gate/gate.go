package gate

import (
	"math"
	"time"

	"dinobot/internal/obstacle"
)

// Trigger - что вызвало нажатие
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerObstacle
	TriggerFallback
	TriggerStart
)

func (t Trigger) String() string {
	switch t {
	case TriggerObstacle:
		return "obstacle"
	case TriggerFallback:
		return "fallback"
	case TriggerStart:
		return "start"
	default:
		return "none"
	}
}

// Phase - фаза управляющего сигнала
type Phase int

const (
	Press Phase = iota
	Release
)

func (p Phase) String() string {
	if p == Release {
		return "release"
	}
	return "press"
}

// Signal - одно событие клавиши
type Signal struct {
	Key   string
	Phase Phase
}

// Action - двухфазный результат: нажать сейчас, отпустить через ReleaseAfter
type Action struct {
	Fire         bool
	Trigger      Trigger
	Press        Signal
	ReleaseAfter time.Duration
	Speed        float64 // скорость после учёта этого нажатия
}

// Release - парный сигнал отпускания
func (a Action) Release() Signal {
	return Signal{Key: a.Press.Key, Phase: Release}
}

// State - состояние запуска, принадлежит сессии
type State struct {
	Active             bool
	LastAction         time.Time
	LastObstacleAction time.Time
	ActionCount        int
	Speed              float64
}

// Reset - начальное состояние нового запуска
func (s *State) Reset() {
	*s = State{Active: true, Speed: 1.0}
}

// Options - все константы решения
type Options struct {
	Key            string
	ScanWidth      int
	Coefficient    float64
	MinDistance    int
	DebounceBase   time.Duration
	FallbackPeriod time.Duration
	ReleaseDelay   time.Duration
	SpeedStep      float64
	SpeedCap       float64
	SpeedEvery     int
}

// Gate решает, нажимать ли клавишу
type Gate struct {
	opts Options
}

func New(opts Options) *Gate {
	return &Gate{opts: opts}
}

// WithScanWidth - копия с другой шириной окна (ширина зависит от кадра)
func (g *Gate) WithScanWidth(width int) *Gate {
	opts := g.opts
	opts.ScanWidth = width
	return &Gate{opts: opts}
}

func (g *Gate) Options() Options {
	return g.opts
}

// JumpThreshold - дистанция, ближе которой препятствие вызывает прыжок
func (g *Gate) JumpThreshold(speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	return float64(g.opts.ScanWidth) * g.opts.Coefficient / speed
}

// MinInterval - минимальная пауза между нажатиями при данной скорости
func (g *Gate) MinInterval(speed float64) time.Duration {
	if speed <= 0 {
		speed = 1
	}
	return time.Duration(float64(g.opts.DebounceBase) / speed)
}

// Decide проверяет препятствие из текущего кадра; принятое нажатие сразу учитывается в state
func (g *Gate) Decide(obs obstacle.Obstacle, found bool, st *State, now time.Time) Action {
	if !st.Active || !found {
		return Action{}
	}
	d := obs.Distance
	if d <= g.opts.MinDistance || float64(d) >= g.JumpThreshold(st.Speed) {
		return Action{}
	}
	return g.accept(st, now, TriggerObstacle)
}

// Fallback срабатывает, если давно не было прыжка по препятствию
func (g *Gate) Fallback(st *State, now time.Time) Action {
	if !st.Active {
		return Action{}
	}
	if !st.LastObstacleAction.IsZero() && now.Sub(st.LastObstacleAction) < g.opts.FallbackPeriod {
		return Action{}
	}
	return g.accept(st, now, TriggerFallback)
}

// Kick - нажатие для старта игры, проходит тот же debounce
func (g *Gate) Kick(st *State, now time.Time) Action {
	if !st.Active {
		return Action{}
	}
	return g.accept(st, now, TriggerStart)
}

func (g *Gate) accept(st *State, now time.Time, trigger Trigger) Action {
	if !st.LastAction.IsZero() && now.Sub(st.LastAction) < g.MinInterval(st.Speed) {
		return Action{}
	}

	st.LastAction = now
	if trigger == TriggerObstacle {
		st.LastObstacleAction = now
	}
	st.ActionCount++
	if g.opts.SpeedEvery > 0 && st.ActionCount%g.opts.SpeedEvery == 0 {
		st.Speed = math.Min(st.Speed+g.opts.SpeedStep, g.opts.SpeedCap)
	}

	return Action{
		Fire:         true,
		Trigger:      trigger,
		Press:        Signal{Key: g.opts.Key, Phase: Press},
		ReleaseAfter: g.opts.ReleaseDelay,
		Speed:        st.Speed,
	}
}
