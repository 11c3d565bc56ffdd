package database

import (
	"database/sql"
	"time"
)

// SessionRow - одна строка таблицы sessions
type SessionRow struct {
	ID            int64
	Profile       string
	StartedAt     time.Time
	StoppedAt     sql.NullTime
	Ticks         int
	CaptureErrors int
	Actions       int
	ObstacleFires int
	FallbackFires int
	Airborne      int
	GroundLevel   int
	MaxSpeed      float64
}

// Duration - длительность запуска; для незавершённой сессии 0
func (s SessionRow) Duration() time.Duration {
	if !s.StoppedAt.Valid {
		return 0
	}
	return s.StoppedAt.Time.Sub(s.StartedAt)
}

// ActionRow - одно нажатие из таблицы actions
type ActionRow struct {
	ID        int64
	SessionID int64
	At        time.Time
	Trigger   string
	KeyName   string
	Distance  int
	Kind      string
	Speed     float64
	Count     int
}
