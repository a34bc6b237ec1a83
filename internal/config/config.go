package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	JWTSecret           string
	StorageBackend      string
	UploadDir           string
	MaxUploadMB         int
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	SMTPHost            string
	SMTPPort            string
	SMTPUser            string
	SMTPPassword        string
	MailFrom            string
	MailFromName        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// MailEnabled reports whether an SMTP transport is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LORTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LoR Tracker API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("storage.backend", "local")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("cloudinary.folder", "lor/files")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("mail.from_name", "LoR Tracker")

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		StorageBackend:      strings.ToLower(v.GetString("storage.backend")),
		UploadDir:           v.GetString("upload.dir"),
		MaxUploadMB:         v.GetInt("upload.max_mb"),
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
		SMTPHost:            v.GetString("smtp.host"),
		SMTPPort:            v.GetString("smtp.port"),
		SMTPUser:            v.GetString("smtp.user"),
		SMTPPassword:        v.GetString("smtp.password"),
		MailFrom:            v.GetString("mail.from"),
		MailFromName:        v.GetString("mail.from_name"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	switch cfg.StorageBackend {
	case "local", "cloudinary":
	default:
		return Config{}, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}

	return cfg, nil
}
