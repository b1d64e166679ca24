package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ecomarket/user-service/config"
	"github.com/ecomarket/user-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demoUser"
	password := "password123"
	email := "demo@ecomarket.example"
	fullName := "Demo User"

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (username, password_hash, email, full_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING id
	`, username, hash, email, fullName).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d username=%s email=%s password=%s\n", id, username, email, password)
}
