package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"simplyblog/internal/auth"
	"simplyblog/internal/config"
	"simplyblog/internal/geoip"
	"simplyblog/internal/httpserver"
	"simplyblog/internal/logger"
	"simplyblog/internal/mediastore"
	"simplyblog/internal/models"
	"simplyblog/internal/service"
	"simplyblog/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	lg := logger.New(cfg.LogLevel)
	defer lg.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(
		&models.Group{}, &models.User{}, &models.Session{},
		&models.Category{}, &models.Tag{}, &models.Blog{},
	); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	users := store.NewUserStore(db)
	groups := store.NewGroupStore(db)
	sessions := store.NewSessionStore(db)
	seedGroups(groups, lg)

	codec := auth.NewCodec(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL, cfg.JWT.ResetTTL)
	geo := geoip.NewClient(cfg.IPInfo.Endpoint, cfg.IPInfo.Timeout)
	authSvc := service.NewAuthService(users, groups, sessions, codec, geo, cfg.IPInfo.Timeout, lg)

	media, err := mediastore.NewMinioStore(cfg.Media)
	if err != nil {
		lg.Fatalw("media store init failed", "error", err)
	}
	if err := media.EnsureBucket(context.Background()); err != nil {
		lg.Fatalw("media bucket init failed", "error", err)
	}

	go sweepSessions(sessions, cfg.Session, lg)

	router := httpserver.NewRouter(db, authSvc, media, lg)
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		lg.Fatalw("server stopped", "error", err)
	}
}

func seedGroups(groups *store.GroupStore, lg *zap.SugaredLogger) {
	for _, name := range []string{service.GroupUser, service.GroupAdmin} {
		if _, err := groups.GetOrCreate(context.Background(), name); err != nil {
			lg.Fatalw("group seed failed", "group", name, "error", err)
		}
	}
	lg.Infow("seeded default groups")
}

// sweepSessions periodically drops session rows past the retention window.
func sweepSessions(sessions *store.SessionStore, cfg config.Session, lg *zap.SugaredLogger) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		n, err := sessions.DeleteExpiredBefore(context.Background(), time.Now().Add(-cfg.Retention))
		if err != nil {
			lg.Warnw("session sweep failed", "error", err)
			continue
		}
		if n > 0 {
			lg.Infow("swept expired sessions", "count", n)
		}
	}
}
