package database

import (
	"log"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db   *gorm.DB
	once sync.Once
)

// Connect opens the PostgreSQL connection once and reuses it afterwards.
func Connect(dsn string) *gorm.DB {
	once.Do(func() {
		conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}

		db = conn
	})

	return db
}
