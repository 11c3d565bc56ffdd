package interrupt

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"

	"dinobot/internal/logger"
)

// InterruptManager управляет горячими клавишами запуска и остановки
type InterruptManager struct {
	stopChan      chan bool
	startChan     chan bool
	running       atomic.Bool
	loggerManager *logger.LoggerManager
}

// NewInterruptManager создает новый менеджер прерываний
func NewInterruptManager(loggerManager *logger.LoggerManager) *InterruptManager {
	return &InterruptManager{
		stopChan:      make(chan bool, 1),
		startChan:     make(chan bool, 1),
		loggerManager: loggerManager,
	}
}

// StartMonitoring запускает мониторинг горячих клавиш
func (im *InterruptManager) StartMonitoring() {
	go im.monitorHotkeys()
}

// GetStopChan возвращает канал остановки сессии
func (im *InterruptManager) GetStopChan() <-chan bool {
	return im.stopChan
}

// GetStartChan возвращает канал запуска сессии
func (im *InterruptManager) GetStartChan() <-chan bool {
	return im.startChan
}

// SetRunning сообщает менеджеру, идёт ли сейчас сессия
func (im *InterruptManager) SetRunning(running bool) {
	im.running.Store(running)
}

// IsRunning возвращает состояние сессии
func (im *InterruptManager) IsRunning() bool {
	return im.running.Load()
}

func (im *InterruptManager) requestStart() {
	if im.running.Load() {
		return
	}
	select {
	case im.startChan <- true:
	default:
	}
}

func (im *InterruptManager) requestStop() {
	// остановка имеет смысл только для идущей сессии
	if !im.running.Load() {
		return
	}
	select {
	case im.stopChan <- true:
	default:
	}
}

// monitorReader читает команды построчно: s/start - запуск, q/stop - остановка
func (im *InterruptManager) monitorReader(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "s", "start":
			im.requestStart()
		case "q", "stop":
			im.requestStop()
		}
	}
	if err := scanner.Err(); err != nil {
		im.loggerManager.LogError(err, "Ошибка чтения команд")
	}
}
