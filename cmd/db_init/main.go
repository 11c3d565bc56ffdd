package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"dinobot/internal/database"
)

func main() {
	reset := flag.Bool("reset", false, "удалить таблицы перед созданием")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	db, err := database.Open(database.DSNFromEnv())
	if err != nil {
		log.Fatalf("Ошибка подключения к MySQL: %v", err)
	}
	defer db.Close()

	if *reset {
		// actions ссылается на sessions, поэтому удаляется первой
		for _, table := range []string{"actions", "sessions"} {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				log.Fatalf("Ошибка удаления таблицы %s: %v", table, err)
			}
			fmt.Printf("Таблица %s удалена (если была)\n", table)
		}
	}

	if err := database.CreateTables(db); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Инициализация базы завершена!")
}
