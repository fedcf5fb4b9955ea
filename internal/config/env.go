package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads a .env file from the current working directory and sets
// environment variables. A missing file is not an error; system environment
// and defaults apply. Pass paths to load specific files; with no paths,
// ".env" is used.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or
// fallback if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by
// key, or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}
