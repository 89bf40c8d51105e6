package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application. It is built once at
// startup and treated as read-only afterwards; handlers receive it by
// pointer and must not mutate it.
type Config struct {
	Port        string
	SecretKey   string
	Environment string

	AWSRegion         string
	UsersTable        string
	AppointmentsTable string

	SNSTopicARN string
	EnableSNS   bool

	Email EmailConfig
}

// EmailConfig holds SMTP relay configuration for direct notifications.
type EmailConfig struct {
	Enabled        bool
	SMTPServer     string
	SMTPPort       int
	SenderEmail    string
	SenderPassword string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	emailConfig := EmailConfig{
		Enabled:        getEnvBool("ENABLE_EMAIL", false),
		SMTPServer:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:       smtpPort,
		SenderEmail:    getEnv("SENDER_EMAIL", ""),
		SenderPassword: getEnv("SENDER_PASSWORD", ""),
	}

	return &Config{
		Port:              getEnv("PORT", "5000"),
		SecretKey:         getEnv("SECRET_KEY", "temporary_secret_key"),
		Environment:       getEnv("APP_ENV", "production"),
		AWSRegion:         getEnv("AWS_REGION_NAME", "ap-south-1"),
		UsersTable:        getEnv("USERS_TABLE_NAME", "UsersTable"),
		AppointmentsTable: getEnv("APPOINTMENTS_TABLE_NAME", "AppointmentsTable"),
		SNSTopicARN:       getEnv("SNS_TOPIC_ARN", ""),
		EnableSNS:         getEnvBool("ENABLE_SNS", false),
		Email:             emailConfig,
	}, nil
}

// Debug reports whether the server should run in debug mode.
func (c *Config) Debug() bool {
	return c.Environment == "development"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
