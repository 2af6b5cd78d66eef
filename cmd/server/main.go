package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/avrillon/dictee/internal/config"
	"github.com/avrillon/dictee/internal/correction"
	"github.com/avrillon/dictee/internal/database"
	"github.com/avrillon/dictee/internal/dictation"
	"github.com/avrillon/dictee/internal/gemini"
	"github.com/avrillon/dictee/internal/handler"
	"github.com/avrillon/dictee/internal/identity"
	"github.com/avrillon/dictee/internal/logging"
	"github.com/avrillon/dictee/internal/middleware"
	"github.com/avrillon/dictee/internal/queue"
	"github.com/avrillon/dictee/internal/repository"
	"github.com/avrillon/dictee/internal/router"
	queue_publisher "github.com/avrillon/dictee/internal/service"
	"github.com/avrillon/dictee/internal/settings"
	"github.com/avrillon/dictee/internal/storage"
	"github.com/avrillon/dictee/internal/tts"
)

func main() {
	_ = godotenv.Load()
	logging.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, database.Pool{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("database migration failed")
	}

	rdb := config.NewRedisClient() // nil when unreachable; limiter and cache fail open

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	apiKeys := repository.NewAPIKeyRepo(db)
	globals := repository.NewSettingRepo(db)
	sessions := repository.NewSessionRepo(db)
	corrections := repository.NewCorrectionRepo(db)

	var resolver settings.Resolver
	switch cfg.SettingsMode {
	case config.SettingsModeGlobal:
		resolver = settings.NewGlobalResolver(globals)
	default:
		resolver = settings.NewUserResolver(apiKeys)
	}

	ai := gemini.NewClient()
	speech := tts.NewClient()
	objects, err := storage.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicBase)
	if err != nil {
		logrus.WithError(err).Fatal("object storage init failed")
	}

	dictations := &dictation.Service{
		Sessions:       sessions,
		Settings:       resolver,
		Extractor:      ai,
		Composer:       ai,
		Synthesizer:    speech,
		Store:          objects,
		PublishCreated: queue_publisher.PublishSessionCreated,
	}
	engine := &correction.Engine{
		Corrections:   corrections,
		Settings:      resolver,
		Extractor:     ai,
		Analyzer:      ai,
		PublishScored: queue_publisher.PublishCorrectionScored,
	}

	authH := handler.NewAuthHandler(cfg, users, tokens, identity.New(cfg.IdentityURL))
	settingsH := handler.NewSettingsHandler(cfg, apiKeys, globals, resolver, settings.NewVoiceCatalogue(speech, rdb))
	uploadH := handler.NewUploadHandler(objects)
	dictationH := handler.NewDictationHandler(dictations)
	correctionH := handler.NewCorrectionHandler(engine)

	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			logrus.WithError(err).Warn("activity consumer exited")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAPI(e, cfg.JWTSecret, limiter, settingsH, uploadH, dictationH, correctionH)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{
		"addr": addr,
		"env":  cfg.Env,
		"mode": cfg.SettingsMode,
	}).Info("listening")

	if err := e.Start(addr); err != nil {
		logrus.Fatal(err)
	}
}
