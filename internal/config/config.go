// Package config reads the server settings from the environment, an
// optional .env file and an optional YAML file of extra tool declarations.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Model             string
	HTTPPort          string
	MongoURI          string
	MongoDB           string
	SessionTTL        time.Duration
	SystemInstruction string
	ToolsFile         string
	ImageFormat       string
	RequestTimeout    time.Duration
	MaxAttempts       int
}

// Load reads .env from path when it exists and then the environment.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(path); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	timeout, err := getDuration("REQUEST_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("SESSION_TTL", 0)
	if err != nil {
		return nil, err
	}
	attempts, err := getInt("MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}

	return &Config{
		Model:             getEnv("MODEL", "gemini-2.5-flash"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		MongoDB:           getEnv("MONGODB_DB", "agent_sessions"),
		SessionTTL:        ttl,
		SystemInstruction: getEnv("SYSTEM_INSTRUCTION", "Você é um assistente prestativo. Use as ferramentas disponíveis quando fizer sentido."),
		ToolsFile:         os.Getenv("TOOLS_FILE"),
		ImageFormat:       getEnv("IMAGE_FORMAT", "png"),
		RequestTimeout:    timeout,
		MaxAttempts:       attempts,
	}, nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// LoadTools reads a YAML document of tool groups or function declarations.
// The result keeps the document's shape: mappings become map[string]any and
// sequences []any.
func LoadTools(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load tools: %w", err)
	}

	var tools any
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &tools); err != nil {
		return nil, fmt.Errorf("config: parse tools: %w", err)
	}
	return tools, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}

	return value
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
