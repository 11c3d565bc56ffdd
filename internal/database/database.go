package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"dinobot/internal/logger"
	"dinobot/internal/session"
)

var ErrNoSession = errors.New("no session recorded")

// DatabaseManager пишет историю запусков в MySQL
type DatabaseManager struct {
	db     *sql.DB
	logger *logger.LoggerManager
	wg     sync.WaitGroup // для ожидания завершения асинхронных операций

	mu        sync.Mutex
	sessionID int64
}

// Open подключается к MySQL и проверяет соединение
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("база данных недоступна: %w", err)
	}
	return db, nil
}

// NewDatabaseManager создает новый экземпляр DatabaseManager
func NewDatabaseManager(db *sql.DB, loggerManager *logger.LoggerManager) *DatabaseManager {
	return &DatabaseManager{
		db:     db,
		logger: loggerManager,
	}
}

// RecordStart добавляет строку сессии; последующие нажатия привязываются к ней
func (h *DatabaseManager) RecordStart(profile string, started time.Time) error {
	result, err := h.db.Exec(`INSERT INTO sessions (profile, started_at) VALUES (?, ?)`, profile, started)
	if err != nil {
		return fmt.Errorf("ошибка вставки сессии: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("ошибка получения ID сессии: %w", err)
	}

	h.mu.Lock()
	h.sessionID = id
	h.mu.Unlock()

	h.logger.Info("✅ Сессия записана с ID: %d", id)
	return nil
}

func (h *DatabaseManager) currentSession() (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessionID == 0 {
		return 0, ErrNoSession
	}
	return h.sessionID, nil
}

// RecordAction сохраняет нажатие асинхронно, чтобы не задерживать цикл сессии
func (h *DatabaseManager) RecordAction(ev session.Event) {
	id, err := h.currentSession()
	if err != nil {
		h.logger.Warn("нажатие без сессии пропущено: %v", err)
		return
	}

	h.wg.Add(1)
	go func(sessionID int64, ev session.Event) {
		defer h.wg.Done()
		_, err := h.db.Exec(
			"INSERT INTO actions (session_id, at, `trigger`, key_name, distance, kind, speed, count) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			sessionID, ev.At, ev.Trigger.String(), ev.Key, ev.Distance, ev.Kind, ev.Speed, ev.Count,
		)
		if err != nil {
			h.logger.LogError(err, "Ошибка асинхронного сохранения нажатия")
		}
	}(id, ev)
}

// RecordStop дожидается записи нажатий и закрывает строку сессии итогами
func (h *DatabaseManager) RecordStop(stats session.Stats) {
	h.WaitForAsyncOperations()

	id, err := h.currentSession()
	if err != nil {
		h.logger.Warn("итоги без сессии пропущены: %v", err)
		return
	}

	_, err = h.db.Exec(`UPDATE sessions SET stopped_at = ?, ticks = ?, capture_errors = ?, actions = ?,
		obstacle_fires = ?, fallback_fires = ?, airborne = ?, ground_level = ?, max_speed = ? WHERE id = ?`,
		stats.Stopped, stats.Ticks, stats.CaptureErrors, stats.Actions,
		stats.ObstacleFires, stats.FallbackFires, stats.Airborne, stats.GroundLevel, stats.MaxSpeed, id)
	if err != nil {
		h.logger.LogError(err, "Ошибка сохранения итогов сессии")
		return
	}

	h.mu.Lock()
	h.sessionID = 0
	h.mu.Unlock()
	h.logger.Info("✅ Итоги сессии %d сохранены", id)
}

// WaitForAsyncOperations ожидает завершения всех асинхронных операций сохранения
func (h *DatabaseManager) WaitForAsyncOperations() {
	h.wg.Wait()
}

const sessionColumns = `id, profile, started_at, stopped_at, ticks, capture_errors, actions,
	obstacle_fires, fallback_fires, airborne, ground_level, max_speed`

func scanSession(row interface{ Scan(...any) error }) (SessionRow, error) {
	var s SessionRow
	err := row.Scan(&s.ID, &s.Profile, &s.StartedAt, &s.StoppedAt, &s.Ticks, &s.CaptureErrors, &s.Actions,
		&s.ObstacleFires, &s.FallbackFires, &s.Airborne, &s.GroundLevel, &s.MaxSpeed)
	return s, err
}

// ListSessions возвращает последние limit сессий, новые первыми
func ListSessions(db *sql.DB, limit int) ([]SessionRow, error) {
	rows, err := db.Query(`SELECT `+sessionColumns+` FROM sessions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки сессий: %w", err)
	}
	defer rows.Close()

	var sessions []SessionRow
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения сессии: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// GetSession возвращает одну сессию по ID
func GetSession(db *sql.DB, id int64) (SessionRow, error) {
	s, err := scanSession(db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRow{}, fmt.Errorf("сессия %d: %w", id, ErrNoSession)
	}
	return s, err
}

// SessionActions возвращает нажатия сессии по порядку
func SessionActions(db *sql.DB, sessionID int64) ([]ActionRow, error) {
	rows, err := db.Query(
		"SELECT id, session_id, at, `trigger`, key_name, distance, kind, speed, count FROM actions WHERE session_id = ? ORDER BY id",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки нажатий: %w", err)
	}
	defer rows.Close()

	var actions []ActionRow
	for rows.Next() {
		var a ActionRow
		if err := rows.Scan(&a.ID, &a.SessionID, &a.At, &a.Trigger, &a.KeyName, &a.Distance, &a.Kind, &a.Speed, &a.Count); err != nil {
			return nil, fmt.Errorf("ошибка чтения нажатия: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// DeleteSession удаляет сессию вместе с нажатиями
func DeleteSession(db *sql.DB, id int64) error {
	result, err := db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления сессии: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("сессия %d: %w", id, ErrNoSession)
	}
	return nil
}

var _ session.Recorder = (*DatabaseManager)(nil)
