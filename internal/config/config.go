package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	WhatsApp  WhatsAppConfig
	MongoDB   MongoDBConfig
	Reminders RemindersConfig
	RateSheet RateSheetConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud
// API. The subsystem is optional: with no access token, quote delivery and
// reminders degrade to log-only.
type WhatsAppConfig struct {
	AccessToken       string
	PhoneNumberID     string
	VerifyToken       string
	BaseURL           string
	APIVersion        string
	ReminderRecipient string
}

// Enabled reports whether outbound WhatsApp messaging is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != ""
}

// MongoDBConfig holds settings for MongoDB. An empty URI selects the
// in-memory stores.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether a MongoDB backend is configured.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// RemindersConfig holds the lead follow-up sweep settings.
type RemindersConfig struct {
	CronSchedule string
	Timezone     string
}

// RateSheetConfig holds the optional Google Sheets tariff import settings.
type RateSheetConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	ReadRange       string
}

// Enabled reports whether the rate sheet import is configured.
func (c RateSheetConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:       os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:     os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:       os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:           getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:        getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ReminderRecipient: os.Getenv("WHATSAPP_REMINDER_RECIPIENT"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "resortcrm"),
		},
		Reminders: RemindersConfig{
			CronSchedule: getenvWithDefault("REMINDER_CRON_SCHEDULE", "*/15 * * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		RateSheet: RateSheetConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("RATE_SHEET_SPREADSHEET_ID"),
			ReadRange:       getenvWithDefault("RATE_SHEET_RANGE", "Tariffs!A2:E"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.WhatsApp.Enabled() && c.WhatsApp.VerifyToken == "" {
		return errors.New("META_VERIFY_TOKEN must be provided when WhatsApp is enabled")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MongoDB is enabled")
	}

	if c.Reminders.CronSchedule == "" {
		return errors.New("REMINDER_CRON_SCHEDULE must be provided")
	}

	if c.RateSheet.Enabled() && c.RateSheet.ReadRange == "" {
		return errors.New("RATE_SHEET_RANGE must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
