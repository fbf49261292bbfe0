// Package util holds small helpers shared by the pedigree commands: reading
// settings such as PORT, AI_ADAPTER, GRAPH_BACKEND or MAX_UPLOAD_SIZE from the
// environment, and retrying model requests.
package util

import (
	"os"
	"strconv"
	"strings"

	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
)

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

// lookup returns the trimmed value of key. Empty values count as unset.
func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func GetEnv(key string) string {
	value, _ := lookup(key)
	return value
}

func GetEnvString(key string, defaultValue string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return defaultValue
}

// GetEnvInt accepts integers and, truncated, decimal numbers.
func GetEnvInt(key string, defaultValue int) int {
	value, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn("Ignoring invalid number in environment", "key", key, "value", value)
		return defaultValue
	}
	return int(f)
}

// GetEnvSize reads a byte count in the notation of echo's body limit, such
// as "512K" or "10M".
func GetEnvSize(key string, defaultValue int64) int64 {
	value, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	size, err := bytes.Parse(value)
	if err != nil || size < 0 {
		logger.Warn("Ignoring invalid size in environment", "key", key, "value", value)
		return defaultValue
	}
	return size
}

func GetEnvBool(key string, defaultValue bool) bool {
	value, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}
