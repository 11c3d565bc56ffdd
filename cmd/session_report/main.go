package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"dinobot/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Использование: session_report <команда> [аргументы]")
		fmt.Println("Команды:")
		fmt.Println("  sessions [N] - последние N сессий (по умолчанию 10)")
		fmt.Println("  show <id> - итоги сессии и её нажатия")
		fmt.Println("  delete <id> - удалить сессию")
		return
	}

	_ = godotenv.Load()
	db, err := database.Open(database.DSNFromEnv())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "sessions":
		limit := 10
		if len(os.Args) > 2 {
			if limit, err = strconv.Atoi(os.Args[2]); err != nil || limit <= 0 {
				log.Fatalf("Неверное количество: %s", os.Args[2])
			}
		}
		sessions, err := database.ListSessions(db, limit)
		if err != nil {
			log.Fatal(err)
		}
		for _, s := range sessions {
			fmt.Printf("#%d %-9s %s  нажатий %d (препятствия %d, fallback %d)  скорость %.1f  длительность %s\n",
				s.ID, s.Profile, s.StartedAt.Format("2006-01-02 15:04:05"),
				s.Actions, s.ObstacleFires, s.FallbackFires, s.MaxSpeed, s.Duration())
		}

	case "show":
		id := sessionID()
		s, err := database.GetSession(db, id)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Сессия #%d (%s), начата %s, длительность %s\n", s.ID, s.Profile, s.StartedAt.Format("15:04:05"), s.Duration())
		fmt.Printf("Тиков %d, ошибок захвата %d, в воздухе %d, на земле %d\n", s.Ticks, s.CaptureErrors, s.Airborne, s.GroundLevel)
		actions, err := database.SessionActions(db, id)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Нажатия:")
		for _, a := range actions {
			fmt.Printf("  %3d %s %-8s %-12s %4d px  x%.1f\n", a.Count, a.At.Format("15:04:05.000"), a.Trigger, a.Kind, a.Distance, a.Speed)
		}

	case "delete":
		id := sessionID()
		if err := database.DeleteSession(db, id); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Сессия #%d удалена\n", id)

	default:
		fmt.Printf("Неизвестная команда: %s\n", command)
	}
}

func sessionID() int64 {
	if len(os.Args) < 3 {
		log.Fatal("Ошибка: укажите id сессии")
	}
	id, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		log.Fatalf("Неверный id: %s", os.Args[2])
	}
	return id
}
