package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type (
	Container struct {
		App   *App
		Token *Token
		DB    *DB
		HTTP  *HTTP
		Redis *Redis
		Log   *Log
	}

	App struct {
		Name string
		Env  string
	}

	Token struct {
		Secret string
	}

	DB struct {
		Driver        string
		Host          string
		Port          string
		User          string
		Password      string
		Name          string
		SSLMode       string
		Path          string
		MigrationsDir string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
		DB       int
		TTL      time.Duration
	}

	Log struct {
		Level string
		Path  string
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	app := &App{
		Name: getEnv("APP_NAME", "bike-registry"),
		Env:  getEnv("APP_ENV", "development"),
	}

	token := &Token{
		Secret: os.Getenv("TOKEN_SECRET"),
	}

	db := &DB{
		Driver:        getEnv("DB_DRIVER", "sqlite3"),
		Host:          getEnv("DB_HOST", "localhost"),
		Port:          getEnv("DB_PORT", "5432"),
		User:          os.Getenv("DB_USER"),
		Password:      os.Getenv("DB_PASSWORD"),
		Name:          getEnv("DB_NAME", "bikes"),
		SSLMode:       getEnv("DB_SSLMODE", "disable"),
		Path:          getEnv("DB_PATH", "bikes.db"),
		MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "./internal/adapter/storage/migrations"),
	}

	http := &HTTP{
		Port:           getEnv("HTTP_PORT", "8081"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            app.Env,
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	redisTTL, err := time.ParseDuration(getEnv("REDIS_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_TTL: %w", err)
	}

	redis := &Redis{
		Address:  os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
		TTL:      redisTTL,
	}

	log := &Log{
		Level: getEnv("LOG_LEVEL", "info"),
		Path:  os.Getenv("LOG_PATH"),
	}

	return &Container{
		App:   app,
		Token: token,
		DB:    db,
		HTTP:  http,
		Redis: redis,
		Log:   log,
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// DSN returns the connection string for the configured driver.
func (d *DB) DSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
	}
	return d.Path
}

// Enabled reports whether a redis cache is configured.
func (r *Redis) Enabled() bool {
	return r.Address != ""
}
