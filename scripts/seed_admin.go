package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/vidyamithra/backend/pkg/auth"
)

func main() {
	fmt.Println("adding admin into database...")

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := os.Getenv("ADMIN_NAME")
	if adminName == "" {
		adminName = "Administrator"
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	query := `
		INSERT INTO users (id, email, full_name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, 'admin', TRUE)
		ON CONFLICT (email) DO UPDATE SET password_hash = $4, role = 'admin', is_active = TRUE
	`
	_, err = pool.Exec(context.Background(), query, uuid.New(), adminEmail, adminName, hash)
	if err != nil {
		log.Fatalf("cannot add admin: %v", err)
	}

	fmt.Printf("added or updated admin '%s' successfully!\n", adminEmail)
}
