package config

import (
	"github.com/glebarez/sqlite"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tracknship-api/models"
)

type App struct {
	Port            string `envconfig:"PORT" default:"8080"`
	DBPath          string `envconfig:"DB_PATH" default:"tracknship.db"`
	JWTSecret       string `envconfig:"JWT_SECRET" default:"tracknship_super_secret_2024"`
	TokenTTLHours   int    `envconfig:"TOKEN_TTL_HOURS" default:"24"`
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// InitDB opens the database and migrates all models. The handle is returned
// rather than stored in a package global; components receive it explicitly.
func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Review{},
		&models.Payment{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
