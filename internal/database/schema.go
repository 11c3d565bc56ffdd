package database

import (
	"database/sql"
	"fmt"
)

// Schema - таблицы истории запусков
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		profile VARCHAR(50) NOT NULL,
		started_at DATETIME(3) NOT NULL,
		stopped_at DATETIME(3) NULL,
		ticks INT NOT NULL DEFAULT 0,
		capture_errors INT NOT NULL DEFAULT 0,
		actions INT NOT NULL DEFAULT 0,
		obstacle_fires INT NOT NULL DEFAULT 0,
		fallback_fires INT NOT NULL DEFAULT 0,
		airborne INT NOT NULL DEFAULT 0,
		ground_level INT NOT NULL DEFAULT 0,
		max_speed DOUBLE NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id INT AUTO_INCREMENT PRIMARY KEY,
		session_id INT NOT NULL,
		at DATETIME(3) NOT NULL,
		` + "`trigger`" + ` VARCHAR(20) NOT NULL,
		key_name VARCHAR(20) NOT NULL,
		distance INT NOT NULL DEFAULT 0,
		kind VARCHAR(20) NOT NULL DEFAULT '',
		speed DOUBLE NOT NULL,
		count INT NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	)`,
}

// CreateTables создает таблицы, если их нет
func CreateTables(db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ошибка создания таблицы: %w", err)
		}
	}
	return nil
}
