package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseBackend string

const (
	BackendSQLite   DatabaseBackend = "sqlite"   // embedded single-file store (default)
	BackendPostgres DatabaseBackend = "postgres" // client-server store
)

type OCREngine string

const (
	OCREngineTesseract OCREngine = "tesseract"
	OCREngineStatic    OCREngine = "static" // deterministic stand-in, no real recognition
)

type (
	Config struct {
		HTTP
		Global
		Database
		OCR
		Auth
		CORS
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Backend DatabaseBackend
		Path    string // sqlite file path
		DSN     string // postgres connection string

		// Pool settings, postgres only. The sqlite backend keeps no pool.
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		ConnMaxIdleTime time.Duration
	}

	OCR struct {
		Engine      OCREngine
		Language    string // tesseract language codes, e.g. "kor+eng"
		Timeout     time.Duration
		StaticText  string // text returned by the static engine
		MaxInFlight int    // cap on concurrent background OCR tasks
	}

	Auth struct {
		MinTokenLength int
	}

	CORS struct {
		AllowOrigins []string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_backend", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_max_open_conns", 10)
	v.SetDefault("database_max_idle_conns", 5)
	v.SetDefault("database_conn_max_lifetime", "1h")
	v.SetDefault("database_conn_max_idle_time", "10m")

	v.SetDefault("ocr_engine", "tesseract")
	v.SetDefault("ocr_language", DefaultOCRLanguage)
	v.SetDefault("ocr_timeout", "30s")
	v.SetDefault("ocr_static_text", "Mock OCR extracted text")
	v.SetDefault("ocr_max_inflight", 4)

	v.SetDefault("auth_min_token_length", MinAPITokenLength)

	v.SetDefault("cors_allow_origins", []string{"*"})

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Backend:         DatabaseBackend(v.GetString("DATABASE_BACKEND")),
			Path:            v.GetString("DATABASE_PATH"),
			DSN:             v.GetString("DATABASE_DSN"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: v.GetDuration("DATABASE_CONN_MAX_IDLE_TIME"),
		},
		OCR: OCR{
			Engine:      OCREngine(v.GetString("OCR_ENGINE")),
			Language:    v.GetString("OCR_LANGUAGE"),
			Timeout:     v.GetDuration("OCR_TIMEOUT"),
			StaticText:  v.GetString("OCR_STATIC_TEXT"),
			MaxInFlight: v.GetInt("OCR_MAX_INFLIGHT"),
		},
		Auth: Auth{
			MinTokenLength: v.GetInt("AUTH_MIN_TOKEN_LENGTH"),
		},
		CORS: CORS{
			AllowOrigins: v.GetStringSlice("CORS_ALLOW_ORIGINS"),
		},
	}
}
