package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"dinobot/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	// Получаем порт из переменной окружения
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Получаем хост из переменной окружения
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	db, err := database.Open(database.DSNFromEnv())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	viewer, err := newViewer(db)
	if err != nil {
		log.Fatalf("Ошибка загрузки шаблонов: %v", err)
	}

	log.Printf("Запускаем сервер на %s:%s", host, port)
	if err := http.ListenAndServe(host+":"+port, viewer.routes()); err != nil {
		log.Fatal(err)
	}
}
