package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dinobot/internal/config"
	"dinobot/internal/detector"
	"dinobot/internal/frame"
	"dinobot/internal/gate"
	"dinobot/internal/logger"
	"dinobot/internal/obstacle"
)

var (
	ErrAlreadyRunning = errors.New("session already running")
	ErrNotRunning     = errors.New("session not running")
)

const (
	releaseTimeout = 2 * time.Second
	releaseRetry   = 50 * time.Millisecond
)

// FrameSource отдаёт свежий кадр на каждый тик
type FrameSource interface {
	CaptureFrame(ctx context.Context) (*frame.Frame, error)
}

// Controller - внешний механизм нажатия клавиш
type Controller interface {
	Press(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// Recorder сохраняет историю запусков; может быть nil
type Recorder interface {
	RecordStart(profile string, started time.Time) error
	RecordAction(ev Event)
	RecordStop(stats Stats)
}

// Status - два состояния сессии
type Status int

const (
	Stopped Status = iota
	Running
)

func (s Status) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Event - одно принятое нажатие
type Event struct {
	At       time.Time
	Trigger  gate.Trigger
	Key      string
	Distance int
	Kind     string
	Speed    float64
	Count    int
}

// Stats - счётчики текущего запуска
type Stats struct {
	Started       time.Time
	Stopped       time.Time
	Ticks         int
	CaptureErrors int
	Actions       int
	ObstacleFires int
	FallbackFires int
	Airborne      int
	GroundLevel   int
	MaxSpeed      float64
}

type pendingRelease struct {
	key string
	due time.Time
}

// Session владеет ControllerState и таймерами. Все тики, fallback и отпускания
// выполняются в одной горутине run, поэтому они не перекрываются.
type Session struct {
	cfg      *config.Config
	detect   detector.Options
	gate     *gate.Gate
	source   FrameSource
	ctrl     Controller
	recorder Recorder
	logger   *logger.LoggerManager
	now      func() time.Time

	mu       sync.Mutex
	status   Status
	state    gate.State
	stats    Stats
	pending  *pendingRelease
	cancel   context.CancelFunc
	done     chan struct{}
	onStatus func(Status)
}

// GateOptions собирает параметры Action Gate из конфигурации
func GateOptions(cfg *config.Config) gate.Options {
	return gate.Options{
		Key:            cfg.Input.Key,
		Coefficient:    cfg.Gate.JumpCoefficient,
		MinDistance:    cfg.Gate.MinDistance,
		DebounceBase:   cfg.Timing.DebounceBase,
		FallbackPeriod: cfg.Timing.FallbackPeriod,
		ReleaseDelay:   cfg.Timing.ReleaseDelay,
		SpeedStep:      cfg.Gate.SpeedStep,
		SpeedCap:       cfg.Gate.SpeedCap,
		SpeedEvery:     cfg.Gate.SpeedEvery,
	}
}

// New создает сессию в состоянии Stopped
func New(cfg *config.Config, source FrameSource, ctrl Controller, recorder Recorder, loggerManager *logger.LoggerManager) *Session {
	return &Session{
		cfg:      cfg,
		detect:   detector.FromConfig(cfg.Detection),
		gate:     gate.New(GateOptions(cfg)),
		source:   source,
		ctrl:     ctrl,
		recorder: recorder,
		logger:   loggerManager,
		now:      time.Now,
	}
}

// SetStatusListener - индикатор состояния (трей, консоль и т.п.)
func (s *Session) SetStatusListener(fn func(Status)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

// Status возвращает текущее состояние
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Snapshot - копия состояния и счётчиков
func (s *Session) Snapshot() (gate.State, Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.stats
}

// Start: Stopped -> Running, скорость 1.0, счётчик 0, запуск таймеров
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.status == Running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	now := s.now()
	s.state.Reset()
	s.stats = Stats{Started: now, MaxSpeed: s.state.Speed}
	s.status = Running
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	onStatus := s.onStatus
	s.mu.Unlock()

	s.logger.Info("🚀 Сессия запущена (профиль %s, опрос %v, fallback %v)",
		s.cfg.Profile, s.cfg.Timing.PollInterval, s.cfg.Timing.FallbackPeriod)
	if s.recorder != nil {
		if err := s.recorder.RecordStart(s.cfg.Profile, now); err != nil {
			s.logger.LogError(err, "Ошибка записи начала сессии")
		}
	}
	if onStatus != nil {
		onStatus(Running)
	}

	go s.run(loopCtx)
	return nil
}

// Stop: Running -> Stopped. Возвращается после того, как таймеры остановлены
// и нажатая клавиша отпущена. Если контроллер так и не принял отпускание,
// клавиша остаётся в ожидании и отпускается перед следующим нажатием.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.status != Running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.status = Stopped
	s.state.Active = false
	s.stats.Stopped = s.now()
	stats := s.stats
	onStatus := s.onStatus
	stuck := s.pending != nil
	s.mu.Unlock()

	if stuck {
		s.logger.Error("клавиша осталась нажатой: контроллер не принял отпускание")
	}

	if s.recorder != nil {
		s.recorder.RecordStop(stats)
	}
	if onStatus != nil {
		onStatus(Stopped)
	}
	s.logger.Info("⏹️ Сессия остановлена: нажатий %d (препятствия %d, fallback %d), скорость %.1f",
		stats.Actions, stats.ObstacleFires, stats.FallbackFires, stats.MaxSpeed)
	return nil
}

// Done закрывается, когда цикл сессии завершился (в том числе при отмене внешнего ctx)
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	poll := time.NewTicker(s.cfg.Timing.PollInterval)
	defer poll.Stop()
	fallback := time.NewTicker(s.cfg.Timing.FallbackPeriod)
	defer fallback.Stop()

	if s.cfg.Timing.StartPress {
		action, prev := s.decide(func(st *gate.State, now time.Time) gate.Action {
			return s.gate.Kick(st, now)
		})
		s.emit(ctx, action, prev, nil)
	}

	for {
		var releaseC <-chan time.Time
		if due, ok := s.pendingDue(); ok {
			releaseC = time.After(time.Until(due))
		}

		// после отмены select может выбрать любой готовый канал, поэтому
		// каждая ветка сначала проверяет ctx, а отпускание идёт ниже
		select {
		case <-ctx.Done():
		case <-poll.C:
			if ctx.Err() == nil {
				if _, err := s.Tick(ctx); err != nil {
					s.logger.Debug("тик пропущен: %v", err)
				}
			}
		case <-fallback.C:
			if ctx.Err() == nil {
				s.Fallback(ctx)
			}
		case <-releaseC:
			if ctx.Err() == nil {
				s.Flush(ctx)
			}
		}

		if ctx.Err() != nil {
			// отпускаем клавишу даже после отмены, иначе она останется зажатой
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			if err := s.Flush(releaseCtx); err != nil {
				s.logger.Warn("⚠️ клавиша не отпущена при остановке, повтор при следующем нажатии")
			}
			cancel()
			return
		}
	}
}

// Tick - один проход: кадр -> земля -> игрок -> окно -> препятствие -> решение -> нажатие
func (s *Session) Tick(ctx context.Context) (gate.Action, error) {
	f, err := s.source.CaptureFrame(ctx)
	if err == nil {
		err = f.Validate()
	}
	if err != nil {
		s.mu.Lock()
		s.stats.Ticks++
		s.stats.CaptureErrors++
		s.mu.Unlock()
		return gate.Action{}, fmt.Errorf("capture frame: %w", err)
	}

	res, err := detector.Detect(f, s.detect)
	if err != nil {
		return gate.Action{}, fmt.Errorf("detect: %w", err)
	}

	g := s.gate.WithScanWidth(res.ScanWidth)
	action, prev := s.decide(func(st *gate.State, now time.Time) gate.Action {
		s.stats.Ticks++
		return g.Decide(res.Obstacle, res.Found, st, now)
	})
	if !action.Fire {
		return action, nil
	}
	s.logger.Debug("препятствие %s на %d px, порог %.1f", res.Obstacle.Kind, res.Obstacle.Distance, g.JumpThreshold(prev.Speed))
	if err := s.emit(ctx, action, prev, &res); err != nil {
		return gate.Action{}, err
	}
	return action, nil
}

// Fallback - страховочный прыжок, если препятствия давно не срабатывали
func (s *Session) Fallback(ctx context.Context) gate.Action {
	action, prev := s.decide(func(st *gate.State, now time.Time) gate.Action {
		return s.gate.Fallback(st, now)
	})
	if !action.Fire {
		return action
	}
	if err := s.emit(ctx, action, prev, nil); err != nil {
		return gate.Action{}
	}
	return action
}

// Flush отпускает нажатую клавишу, если она есть. Если отпустить не удалось,
// клавиша остаётся в ожидании и отпускается следующей попыткой.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	p := s.pending
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	if err := s.ctrl.Release(ctx, p.key); err != nil {
		s.logger.LogError(err, "Ошибка отпускания клавиши")
		s.mu.Lock()
		if s.pending == p {
			p.due = s.now().Add(releaseRetry)
		}
		s.mu.Unlock()
		return fmt.Errorf("release %s: %w", p.key, err)
	}

	s.mu.Lock()
	if s.pending == p {
		s.pending = nil
	}
	s.mu.Unlock()
	return nil
}

// decide применяет решение гейта к состоянию и возвращает состояние до него
func (s *Session) decide(fn func(st *gate.State, now time.Time) gate.Action) (gate.Action, gate.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state
	return fn(&s.state, s.now()), prev
}

// rollback отменяет принятое решение, если клавиша так и не была нажата:
// счётчик и скорость считают только реальные нажатия
func (s *Session) rollback(prev gate.State) {
	s.mu.Lock()
	prev.Active = s.state.Active
	s.state = prev
	s.mu.Unlock()
}

func (s *Session) pendingDue() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return time.Time{}, false
	}
	return s.pending.due, true
}

// emit нажимает клавишу и планирует парное отпускание
func (s *Session) emit(ctx context.Context, action gate.Action, prev gate.State, res *detector.Result) error {
	if !action.Fire {
		return nil
	}
	// предыдущее нажатие ещё не отпущено - отпускаем, чтобы пары не перепутались
	if err := s.Flush(ctx); err != nil {
		s.rollback(prev)
		return err
	}

	now := s.now()
	if err := s.ctrl.Press(ctx, action.Press.Key); err != nil {
		s.logger.LogError(err, "Ошибка нажатия клавиши")
		s.rollback(prev)
		return fmt.Errorf("press %s: %w", action.Press.Key, err)
	}

	ev := Event{
		At:      now,
		Trigger: action.Trigger,
		Key:     action.Press.Key,
		Speed:   action.Speed,
	}

	s.mu.Lock()
	s.pending = &pendingRelease{key: action.Press.Key, due: now.Add(action.ReleaseAfter)}
	s.stats.Actions++
	switch action.Trigger {
	case gate.TriggerObstacle:
		s.stats.ObstacleFires++
	case gate.TriggerFallback:
		s.stats.FallbackFires++
	}
	if res != nil && res.Found {
		ev.Distance = res.Obstacle.Distance
		ev.Kind = res.Obstacle.Kind.String()
		if res.Obstacle.Kind == obstacle.Airborne {
			s.stats.Airborne++
		} else {
			s.stats.GroundLevel++
		}
	}
	if action.Speed > s.stats.MaxSpeed {
		s.stats.MaxSpeed = action.Speed
	}
	ev.Count = s.state.ActionCount
	s.mu.Unlock()

	s.logger.Info("🦖 Прыжок #%d (%s) скорость %.1f", ev.Count, ev.Trigger, ev.Speed)
	if s.recorder != nil {
		s.recorder.RecordAction(ev)
	}
	return nil
}
