package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	} `json:"server"`
	Storage struct {
		// Driver selects the storage-port implementation: "sqlite" or
		// "memory". Resolved once at startup; the services never branch
		// on which backend is active.
		Driver string `json:"driver"`
		Path   string `json:"path"`
	} `json:"storage"`
	Auth struct {
		JWTSecret     string        `json:"jwt_secret"`
		TokenExpiry   time.Duration `json:"token_expiry"`
		AllowDevToken bool          `json:"allow_dev_tokens"`
	} `json:"auth"`
	Generator struct {
		// HF router chat-completions endpoint. An empty token disables
		// generation; the composer then always uses templates.
		BaseURL string        `json:"base_url"`
		Model   string        `json:"model"`
		Token   string        `json:"token"`
		Timeout time.Duration `json:"timeout"`
	} `json:"generator"`
	Delivery struct {
		SendGridAPIKey    string        `json:"sendgrid_api_key"`
		SendGridFromEmail string        `json:"sendgrid_from_email"`
		TwilioAccountSID  string        `json:"twilio_account_sid"`
		TwilioAuthToken   string        `json:"twilio_auth_token"`
		TwilioFromNumber  string        `json:"twilio_from_number"`
		Timeout           time.Duration `json:"timeout"`
	} `json:"delivery"`
	Cron struct {
		Secret string `json:"secret"`
		// Budget bounds one follow-up sweep; partial completion is safe.
		Budget time.Duration `json:"budget"`
	} `json:"cron"`
	SavedMinutesPerAction int `json:"saved_minutes_per_action"`
	Logging               struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8080
	config.Server.Host = "localhost"
	config.Storage.Driver = "sqlite"
	config.Storage.Path = "mainst.db"
	config.Auth.JWTSecret = "change-me" // override via MAINST_JWT_SECRET
	config.Auth.TokenExpiry = 24 * time.Hour
	config.Auth.AllowDevToken = true
	config.Generator.BaseURL = "https://router.huggingface.co/v1/chat/completions"
	config.Generator.Model = "mistralai/Mistral-7B-Instruct-v0.2"
	config.Generator.Timeout = 8 * time.Second
	config.Delivery.SendGridFromEmail = "no-reply@mainst.ai"
	config.Delivery.Timeout = 8 * time.Second
	config.Cron.Secret = "change-me"
	config.Cron.Budget = 60 * time.Second
	config.SavedMinutesPerAction = 2
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	config.applyEnv()
	return config
}

// applyEnv overlays secrets and switches that are usually supplied through
// the environment (a .env file is loaded by main before this runs).
func (c *Config) applyEnv() {
	setString(&c.Auth.JWTSecret, "MAINST_JWT_SECRET")
	setBool(&c.Auth.AllowDevToken, "ALLOW_DEV_TOKENS")
	setString(&c.Generator.Token, "HF_TOKEN")
	setString(&c.Generator.Model, "HF_MODEL")
	setString(&c.Delivery.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Delivery.SendGridFromEmail, "SENDGRID_FROM_EMAIL")
	setString(&c.Delivery.TwilioAccountSID, "TWILIO_ACCOUNT_SID")
	setString(&c.Delivery.TwilioAuthToken, "TWILIO_AUTH_TOKEN")
	setString(&c.Delivery.TwilioFromNumber, "TWILIO_FROM_NUMBER")
	setString(&c.Cron.Secret, "CRON_SECRET")
	setString(&c.Storage.Driver, "MAINST_STORAGE_DRIVER")
	setString(&c.Storage.Path, "MAINST_STORAGE_PATH")
	setInt(&c.SavedMinutesPerAction, "SAVED_MINUTES_PER_ACTION")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
