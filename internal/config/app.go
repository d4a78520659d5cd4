package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return port
}

// SessionSweep returns how often idle sessions are swept and how long a
// session may stay idle.
func SessionSweep() (interval time.Duration, maxIdle time.Duration, err error) {
	interval, err = durationOr("SESSION_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return
	}
	if interval <= 0 {
		return 0, 0, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", interval)
	}
	maxIdle, err = durationOr("SESSION_MAX_IDLE", time.Hour)
	if err != nil {
		return
	}
	if maxIdle <= 0 {
		return 0, 0, fmt.Errorf("SESSION_MAX_IDLE must be positive, got %s", maxIdle)
	}
	return
}
