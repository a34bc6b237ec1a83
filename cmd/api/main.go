package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lor-tracker-api/internal/config"
	"github.com/noah-isme/lor-tracker-api/internal/database"
	"github.com/noah-isme/lor-tracker-api/internal/handler"
	"github.com/noah-isme/lor-tracker-api/internal/middleware"
	"github.com/noah-isme/lor-tracker-api/internal/models"
	"github.com/noah-isme/lor-tracker-api/internal/repository"
	"github.com/noah-isme/lor-tracker-api/internal/router"
	"github.com/noah-isme/lor-tracker-api/internal/service"
	cloud "github.com/noah-isme/lor-tracker-api/pkg/cloudinary"
	"github.com/noah-isme/lor-tracker-api/pkg/mailer"
	"github.com/noah-isme/lor-tracker-api/pkg/storage"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.FacultyProfile{},
		&models.Submission{},
		&models.File{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional fan-out channels; the service runs
	// without them.
	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, live notifications disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, event fan-out disabled")
		natsConn = nil
	} else {
		defer natsConn.Drain()
	}

	store, err := buildStorage(cfg, logger)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	var mail *mailer.Mailer
	if cfg.MailEnabled() {
		smtpPort, err := strconv.Atoi(cfg.SMTPPort)
		if err != nil {
			log.Fatalf("invalid smtp port: %v", err)
		}
		mail = mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     smtpPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			FromName: cfg.MailFromName,
			FromAddr: cfg.MailFrom,
		}, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentProfileRepo := repository.NewStudentProfileRepository(db)
	facultyProfileRepo := repository.NewFacultyProfileRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	fileRepo := repository.NewFileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	directory := service.NewDirectoryService(studentProfileRepo, facultyProfileRepo, userRepo)
	notifications := service.NewNotificationService(notificationRepo, directory, redisClient, natsConn, mail, logger)
	submissions := service.NewSubmissionService(submissionRepo, directory, notifications, validate, logger)
	files := service.NewFileService(fileRepo, submissions, directory, store, logger, int64(cfg.MaxUploadMB)<<20)
	studentProfiles := service.NewStudentProfileService(studentProfileRepo, fileRepo, validate, logger)
	facultyProfiles := service.NewFacultyProfileService(facultyProfileRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) << 20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HealthHandler:         handler.NewHealthHandler(cfg.AppName, version),
		SubmissionHandler:     handler.NewSubmissionHandler(submissions),
		FileHandler:           handler.NewFileHandler(files),
		StudentProfileHandler: handler.NewStudentProfileHandler(studentProfiles),
		FacultyProfileHandler: handler.NewFacultyProfileHandler(facultyProfiles),
		NotificationHandler:   handler.NewNotificationHandler(notifications),
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildStorage(cfg config.Config, logger zerolog.Logger) (storage.FileStorage, error) {
	if cfg.StorageBackend == "cloudinary" {
		svc, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	}

	local, err := storage.NewLocal(cfg.UploadDir, logger)
	if err != nil {
		return nil, err
	}
	return local, nil
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
