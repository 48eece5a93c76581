package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/models"
)

type Config struct {
	PORT                   string
	DATABASE_URL           string
	DB_HOST                string
	DB_PORT                string
	DB_USER                string
	DB_PASSWORD            string
	DB_NAME                string
	STRIPE_SECRET_KEY      string
	STRIPE_PUBLISHABLE_KEY string
	STRIPE_WEBHOOK_SECRET  string
	DEMO_STOCK_CHECK       bool
	KAFKA_ADDRESS          string
	REDIS_ADDR             string
	ES_URL                 string
	ES_USER                string
	ES_PASSWORD            string
	ADMIN_JWT_SECRET       string
	LOG_LEVEL              string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	demoStockCheck, _ := strconv.ParseBool(os.Getenv("DEMO_STOCK_CHECK"))

	config := &Config{
		PORT:                   os.Getenv("PORT"),
		DATABASE_URL:           os.Getenv("DATABASE_URL"),
		DB_HOST:                os.Getenv("DB_HOST"),
		DB_PORT:                os.Getenv("DB_PORT"),
		DB_USER:                os.Getenv("DB_USER"),
		DB_PASSWORD:            os.Getenv("DB_PASSWORD"),
		DB_NAME:                os.Getenv("DB_NAME"),
		STRIPE_SECRET_KEY:      os.Getenv("STRIPE_SECRET_KEY"),
		STRIPE_PUBLISHABLE_KEY: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
		STRIPE_WEBHOOK_SECRET:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
		DEMO_STOCK_CHECK:       demoStockCheck,
		KAFKA_ADDRESS:          os.Getenv("KAFKA_ADDRESS"),
		REDIS_ADDR:             os.Getenv("REDIS_ADDR"),
		ES_URL:                 os.Getenv("ES_URL"),
		ES_USER:                os.Getenv("ES_USER"),
		ES_PASSWORD:            os.Getenv("ES_PASSWORD"),
		ADMIN_JWT_SECRET:       os.Getenv("ADMIN_JWT_SECRET"),
		LOG_LEVEL:              os.Getenv("LOG_LEVEL"),
	}

	if config.PORT == "" {
		config.PORT = "3001"
	}

	return config, nil
}

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// DatabaseDSN prefers a full DATABASE_URL and otherwise assembles the
// connection string from the discrete DB_* parts.
func (c *Config) DatabaseDSN() string {
	if c.DATABASE_URL != "" {
		return c.DATABASE_URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN()), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
