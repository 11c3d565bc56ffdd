package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tarm/serial"

	"dinobot/internal/arduino"
	"dinobot/internal/browser"
	"dinobot/internal/config"
	"dinobot/internal/database"
	"dinobot/internal/interrupt"
	"dinobot/internal/logger"
	"dinobot/internal/native"
	"dinobot/internal/screen"
	"dinobot/internal/screenshot"
	"dinobot/internal/session"
)

func main() {
	// init конфигурации
	c, err := config.InitConfig(".")
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	// Инициализация логгера
	loggerManager, err := logger.NewLoggerManager(c.LogFilePath)
	if err != nil {
		log.Fatal("Error initializing logger: ", err)
	}
	defer loggerManager.Close()
	loggerManager.SetDebug(c.Debug)

	loggerManager.Info("🚀 Запуск dinobot (профиль %s)", c.Profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// История запусков в MySQL - по желанию
	var recorder session.Recorder
	if c.Database.Enabled {
		db, err := database.Open(c.Database.DSN)
		if err != nil {
			loggerManager.LogError(err, "Error connecting to database")
			return
		}
		defer db.Close()
		if err := database.CreateTables(db); err != nil {
			loggerManager.LogError(err, "Error creating tables")
			return
		}
		loggerManager.Info("✅ Успешное подключение к базе данных")
		dbManager := database.NewDatabaseManager(db, loggerManager)
		defer dbManager.WaitForAsyncOperations()
		recorder = dbManager
	}

	b := &backends{cfg: c, logger: loggerManager}
	defer b.close()

	source, err := b.source()
	if err != nil {
		loggerManager.LogError(err, "Ошибка инициализации источника кадров")
		return
	}
	ctrl, err := b.controller()
	if err != nil {
		loggerManager.LogError(err, "Ошибка инициализации ввода")
		return
	}

	s := session.New(c, source, ctrl, recorder, loggerManager)
	s.SetStatusListener(func(st session.Status) {
		loggerManager.Info("🔔 Статус: %s", st)
	})

	// Инициализация менеджера прерываний
	interruptManager := interrupt.NewInterruptManager(loggerManager)
	interruptManager.StartMonitoring()
	loggerManager.Info("⏸️ Программа готова к работе")

	for {
		select {
		case <-ctx.Done():
			if s.Status() == session.Running {
				if err := s.Stop(); err != nil {
					loggerManager.LogError(err, "Ошибка остановки сессии")
				}
			}
			loggerManager.Info("👋 Завершение работы")
			return

		case <-interruptManager.GetStartChan():
			if err := s.Start(ctx); err != nil {
				loggerManager.LogError(err, "Ошибка запуска сессии")
				continue
			}
			interruptManager.SetRunning(true)

		case <-interruptManager.GetStopChan():
			if err := s.Stop(); err != nil {
				loggerManager.LogError(err, "Ошибка остановки сессии")
			}
			interruptManager.SetRunning(false)
		}
	}
}

// backends создает источник кадров и клавиатуру по конфигурации.
// Браузер общий: он может быть и источником, и клавиатурой одновременно.
type backends struct {
	cfg     *config.Config
	logger  *logger.LoggerManager
	browser *browser.Browser
	port    *serial.Port
	arduino *arduino.Controller
}

func (b *backends) sharedBrowser() (*browser.Browser, error) {
	if b.browser != nil {
		return b.browser, nil
	}
	br := browser.NewBrowser(b.cfg.Capture, b.logger)
	if err := br.Start(); err != nil {
		br.Close()
		return nil, err
	}
	b.browser = br
	return br, nil
}

func (b *backends) source() (session.FrameSource, error) {
	switch b.cfg.Capture.Backend {
	case "browser":
		return b.sharedBrowser()
	case "screen":
		manager := screenshot.NewScreenshotManager(b.cfg.Capture, b.logger)
		if b.cfg.Capture.AutoLocate {
			region, err := screen.LocateOnScreen(screen.LocateOptions{
				Threshold: b.cfg.Detection.Threshold,
				MinRun:    b.cfg.Capture.Region.Width / 2,
				Above:     b.cfg.Capture.Region.Height - 10,
				Below:     10,
			})
			if err != nil {
				return nil, fmt.Errorf("auto locate: %w", err)
			}
			b.logger.Info("🔍 Игра найдена: x=%d y=%d %dx%d", region.X, region.Y, region.Width, region.Height)
			manager.SetRegion(region)
		}
		return manager, nil
	}
	return nil, fmt.Errorf("unknown capture backend %q", b.cfg.Capture.Backend)
}

func (b *backends) controller() (session.Controller, error) {
	switch b.cfg.Input.Backend {
	case "browser":
		return b.sharedBrowser()
	case "native":
		return native.NewKeyboard(), nil
	case "arduino":
		port, err := arduino.InitializePort(b.cfg.Input.Port, b.cfg.Input.BaudRate)
		if err != nil {
			return nil, fmt.Errorf("open arduino port: %w", err)
		}
		b.port = port
		b.arduino = arduino.NewController(port)
		return b.arduino, nil
	}
	return nil, fmt.Errorf("unknown input backend %q", b.cfg.Input.Backend)
}

func (b *backends) close() {
	if b.arduino != nil {
		if err := b.arduino.ReleaseAll(context.Background()); err != nil {
			b.logger.LogError(err, "Error releasing keys")
		}
	}
	if b.port != nil {
		if err := b.port.Close(); err != nil {
			b.logger.LogError(err, "Error closing port")
		}
	}
	if b.browser != nil {
		b.browser.Close()
	}
}
