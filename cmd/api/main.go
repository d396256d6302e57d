package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/emanuelratliff/abstract-inventory/internal/audit"
	"github.com/emanuelratliff/abstract-inventory/internal/auth"
	"github.com/emanuelratliff/abstract-inventory/internal/config"
	"github.com/emanuelratliff/abstract-inventory/internal/httpserver"
	"github.com/emanuelratliff/abstract-inventory/internal/logger"
	"github.com/emanuelratliff/abstract-inventory/internal/models"
	"github.com/emanuelratliff/abstract-inventory/internal/session"
)

func main() {
	cfg := config.Load()
	lg := logger.New()
	defer lg.Sync()

	if cfg.DatabaseURL == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}
	seedFirstAdmin(db, lg)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		lg.Fatalw("redis connect failed", "addr", cfg.RedisAddr, "error", err)
	}
	sessions := session.NewStore(rdb)

	audLg := logger.NewAudit(cfg.AuditLogFile)
	defer audLg.Sync()
	aud := audit.New(db, audLg)

	router := httpserver.NewRouter(db, sessions, aud, cfg, lg)
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatal(err)
	}
}

// seedFirstAdmin bootstraps an administrator account when the grants
// table is empty, so a fresh deployment is reachable.
func seedFirstAdmin(db *gorm.DB, lg *zap.SugaredLogger) {
	var count int64
	db.Model(&models.Admin{}).Count(&count)
	if count > 0 {
		return
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, _ := auth.HashPassword(password)
	u := models.User{ID: uuid.NewString(), Username: "admin", Email: "admin@localhost", PasswordHash: hash}
	if err := db.Where("username = ?", u.Username).FirstOrCreate(&u).Error; err != nil {
		lg.Errorw("seed admin user failed", "error", err)
		return
	}
	if err := db.Create(&models.Admin{UserID: u.ID, Username: u.Username}).Error; err != nil {
		lg.Errorw("seed admin grant failed", "error", err)
		return
	}
	lg.Infow("seeded first admin", "username", u.Username)
}
