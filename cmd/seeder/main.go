// cmd/seeder/main.go
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/adstation/campaign-backend/internal/auth"
	"github.com/adstation/campaign-backend/internal/config"
	"github.com/adstation/campaign-backend/internal/db"
	"github.com/adstation/campaign-backend/internal/model"
	"github.com/adstation/campaign-backend/internal/policy"
	"github.com/adstation/campaign-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on OS environment variables")
	}

	cfg := config.Load()
	db.Init(cfg)
	defer db.DB.Close()

	userRepo := &repository.UserRepository{DB: db.DB}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		log.Fatal(err)
	}

	admin := &model.User{
		Name:         "Super Admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         string(policy.RoleSuperAdmin),
		IsActive:     true,
	}
	if err := userRepo.Create(admin); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Println("seeded admin user:", admin.Email)

	agencyAdmin := &model.User{
		Name:         "Acme Admin",
		Email:        "acme-admin@example.com",
		PasswordHash: hash,
		Role:         string(policy.RoleAgencyAdmin),
		Company:      "Acme",
		IsActive:     true,
	}
	if err := userRepo.Create(agencyAdmin); err != nil {
		log.Fatalf("failed to seed agency admin: %v", err)
	}
	fmt.Println("seeded agency admin:", agencyAdmin.Email)

	fmt.Println("database seeding completed successfully")
}
