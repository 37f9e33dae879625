package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"civictrack/backend/internal/complaint"
	"civictrack/backend/internal/config"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/notify"
	"civictrack/backend/internal/storage"
	"civictrack/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	s := storage.NewService(db, rdb, int64(cfg.SessionTTL.Seconds()))

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: create-admin <email> <password> | set-status <complaint-id> <status> | list-complaints")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin create-admin <email> <password>")
			os.Exit(1)
		}
		if err := createAdmin(s, os.Args[2], os.Args[3]); err != nil {
			log.Fatal().Err(err).Msg("error creating admin")
		}
		fmt.Printf("Admin %s created.\n", os.Args[2])

	case "set-status":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-status <complaint-id> <status>")
			os.Exit(1)
		}
		// Wire the fan-out with just the broadcast channel so dashboards see
		// CLI-made changes too; email and admin alerts stay server-side.
		notifier := notify.NewService(s, nil, nil, config.DefaultNotifyQueue, log)
		svc := complaint.NewService(s, nil, notifier, log)
		updated, err := svc.SetStatus(os.Args[2], os.Args[3])
		if err != nil {
			log.Fatal().Err(err).Msg("error updating status")
		}
		fmt.Printf("Complaint %s is now %s.\n", updated.ID, updated.Status)

	case "list-complaints":
		complaints, err := s.GetAllComplaints()
		if err != nil {
			log.Fatal().Err(err).Msg("error listing complaints")
		}
		for _, c := range complaints {
			owner := c.UserID
			if c.Owner != nil {
				owner = c.Owner.Email
			}
			fmt.Printf("%s  %-17s  %s/%s  %s\n", c.ID, c.Status, c.Category, c.Subcategory, owner)
		}

	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func createAdmin(s storage.Storage, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.CreateUser(&models.User{
		FirstName: "System",
		LastName:  "Admin",
		Email:     email,
		Phone:     "0000000000",
		Address:   "Head Office",
		Password:  string(hashed),
		Role:      models.RoleAdmin,
	})
}
