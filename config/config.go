// Package config has the configuration file for the app
package config

import (
	"fmt"
	"net"
	"net/mail"
	"os"
	"strconv"
	"strings"

	"github.com/sehatnxt/prescriptions-api/render"
)

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               string
	LogLevel          string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	DataDir            string // Directory with reference data overrides, empty means embedded defaults only
	ReloadMinutes      int    // Reference data reload interval
	DraftTTLMinutes    int    // Idle prescription drafts older than this are swept
	SuggestLimit       int    // Maximum autocomplete suggestions per request
	PrintDelayMs       int    // Delay before the print action fires on a rendered document
	StrictInteractions bool   // Exact base-name matching instead of substring containment

	Clinic render.ClinicProfile
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               getEnvWithDefault("ENV", "dev"),
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		DataDir:            os.Getenv("DATA_DIR"),
		ReloadMinutes:      getIntEnvWithDefault("RELOAD_MINUTES", 60),
		DraftTTLMinutes:    getIntEnvWithDefault("DRAFT_TTL_MINUTES", 120),
		SuggestLimit:       getIntEnvWithDefault("SUGGEST_LIMIT", 10),
		PrintDelayMs:       getIntEnvWithDefault("PRINT_DELAY_MS", 250),
		StrictInteractions: getBoolEnvWithDefault("STRICT_INTERACTIONS", false),

		Clinic: render.ClinicProfile{
			DoctorName:         getEnvWithDefault("DOCTOR_NAME", "Dr. Sharma"),
			Credentials:        getEnvWithDefault("DOCTOR_CREDENTIALS", "MBBS, MD"),
			RegistrationNumber: getEnvWithDefault("DOCTOR_REG_NO", "12345"),
			ClinicName:         getEnvWithDefault("CLINIC_NAME", "SehatNxt+"),
			ClinicAddress:      getEnvWithDefault("CLINIC_ADDRESS", "Sharma Clinic, MG Road, Mumbai - 400001"),
			ClinicPhone:        getEnvWithDefault("CLINIC_PHONE", "+91 98765 43210"),
			ClinicEmail:        getEnvWithDefault("CLINIC_EMAIL", "info@sharmaclinic.com"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateDataDir(cfg.DataDir); err != nil {
		return fmt.Errorf("invalid DATA_DIR: %w", err)
	}

	if err := validateMinuteInterval(cfg.ReloadMinutes, "RELOAD_MINUTES"); err != nil {
		return fmt.Errorf("invalid RELOAD_MINUTES: %w", err)
	}

	if err := validateMinuteInterval(cfg.DraftTTLMinutes, "DRAFT_TTL_MINUTES"); err != nil {
		return fmt.Errorf("invalid DRAFT_TTL_MINUTES: %w", err)
	}

	if err := validateSuggestLimit(cfg.SuggestLimit); err != nil {
		return fmt.Errorf("invalid SUGGEST_LIMIT: %w", err)
	}

	if err := validatePrintDelay(cfg.PrintDelayMs); err != nil {
		return fmt.Errorf("invalid PRINT_DELAY_MS: %w", err)
	}

	if err := validateClinic(cfg.Clinic); err != nil {
		return fmt.Errorf("invalid clinic profile: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// Check for privileged ports
	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	// Loopback addresses are acceptable for development
	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

// validateDataDir validates the DATA_DIR environment variable. Empty is
// fine, the embedded defaults are used then.
func validateDataDir(dir string) error {
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("DATA_DIR %s is not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("DATA_DIR %s is not a directory", dir)
	}

	return nil
}

// validateMinuteInterval validates interval configuration values
func validateMinuteInterval(minutes int, configName string) error {
	if minutes <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, minutes)
	}

	if minutes > 24*60 { // 1 day maximum
		return fmt.Errorf("%s is too large (max 1440 minutes), got: %d", configName, minutes)
	}

	return nil
}

// validateSuggestLimit validates the SUGGEST_LIMIT environment variable
func validateSuggestLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("SUGGEST_LIMIT must be positive, got: %d", limit)
	}

	if limit > 100 {
		return fmt.Errorf("SUGGEST_LIMIT is too large (max 100), got: %d", limit)
	}

	return nil
}

// validatePrintDelay validates the PRINT_DELAY_MS environment variable
func validatePrintDelay(ms int) error {
	if ms < 0 {
		return fmt.Errorf("PRINT_DELAY_MS cannot be negative, got: %d", ms)
	}

	if ms > 10000 { // 10 seconds maximum
		return fmt.Errorf("PRINT_DELAY_MS is too large (max 10000), got: %d", ms)
	}

	return nil
}

// validateClinic validates the clinic letterhead profile
func validateClinic(p render.ClinicProfile) error {
	if strings.TrimSpace(p.DoctorName) == "" {
		return fmt.Errorf("DOCTOR_NAME cannot be empty")
	}
	if strings.TrimSpace(p.ClinicName) == "" {
		return fmt.Errorf("CLINIC_NAME cannot be empty")
	}
	if p.ClinicEmail != "" {
		if _, err := mail.ParseAddress(p.ClinicEmail); err != nil {
			return fmt.Errorf("CLINIC_EMAIL must be a valid address: %w", err)
		}
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getBoolEnvWithDefault gets an environment variable as bool with a default value
func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT",
		"ADDRESS",
		"ENV",
		"LOG_LEVEL",
		"LOG_RETENTION_WEEKS",
		"MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY",
		"MAX_HEADER_SIZE",
		"DATA_DIR",
		"RELOAD_MINUTES",
		"DRAFT_TTL_MINUTES",
		"SUGGEST_LIMIT",
		"PRINT_DELAY_MS",
		"STRICT_INTERACTIONS",
		"DOCTOR_NAME",
		"DOCTOR_CREDENTIALS",
		"DOCTOR_REG_NO",
		"CLINIC_NAME",
		"CLINIC_ADDRESS",
		"CLINIC_PHONE",
		"CLINIC_EMAIL",
	}
}
