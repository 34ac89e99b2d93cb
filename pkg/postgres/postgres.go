package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
)

type Config struct {
	Host         string `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port         string `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	User         string `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password     string `yaml:"password" envconfig:"DB_PASSWORD" default:"postgres"`
	DBName       string `yaml:"dbname" envconfig:"DB_NAME" default:"bookhub"`
	SSLMode      string `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns int    `yaml:"maxOpenConns" envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
}

// NewPostgresDB connects via the pgx stdlib driver and applies goose migrations
// from the embedded FS.
func NewPostgresDB(ctx context.Context, cfg *Config, migrations embed.FS) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(time.Hour)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	return db, nil
}
