// config/config.go

package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Settings holds everything the server reads from the environment.
type Settings struct {
	DBURL             string
	RedisAddr         string
	JWTSecret         string
	Port              string
	SchoolName        string
	CurrentSchoolYear string
	FinancialsTTL     time.Duration
}

var C Settings

// JwtKey is the HMAC key used to sign and verify auth tokens.
var JwtKey []byte

// Load reads settings from the environment with viper and fills in defaults.
// DB_URL and JWT_SECRET have no sensible defaults and must be set.
func Load() {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SCHOOL_NAME", "Abundant Life School of Discovery")
	viper.SetDefault("CURRENT_SCHOOL_YEAR", "2025-2026")
	viper.SetDefault("FINANCIALS_CACHE_SECONDS", 30)

	C = Settings{
		DBURL:             viper.GetString("DB_URL"),
		RedisAddr:         viper.GetString("REDIS_ADDR"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		Port:              viper.GetString("PORT"),
		SchoolName:        viper.GetString("SCHOOL_NAME"),
		CurrentSchoolYear: viper.GetString("CURRENT_SCHOOL_YEAR"),
		FinancialsTTL:     time.Duration(viper.GetInt("FINANCIALS_CACHE_SECONDS")) * time.Second,
	}

	if C.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is not set")
		os.Exit(1)
	}
	JwtKey = []byte(C.JWTSecret)
}
