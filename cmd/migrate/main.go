package main

import (
	"context"
	"fmt"
	"log"

	"procurement/internal/app/dsn"
	"procurement/internal/app/repository"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	check := flag.Bool("check", false, "only report how many requests are stored")
	flag.Parse()

	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	// Получение DSN строки подключения
	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	// Подключение к базе данных
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	if *check {
		count, err := repository.NewWithDB(db).CountRequests(context.Background())
		if err != nil {
			log.Fatalf("Failed to count requests: %v", err)
		}
		fmt.Printf("Requests in database: %d\n", count)
		return
	}

	// Миграция всех моделей
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	log.Println("Database migration completed successfully")
}
