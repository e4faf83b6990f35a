// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/costsim/internal/modules/impact"
)

// Config holds application configuration
type Config struct {
	Port           int
	LogLevel       string
	DevMode        bool
	Coefficients   impact.Coefficients // Model calibration, fixed for the process lifetime
	ScheduleSteps  int                 // Child trades per execution schedule
	DefaultFeeTier string              // Tier assumed when a request names none
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnvAsInt("COSTSIM_PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		Coefficients: impact.Coefficients{
			ImpactFactor:     getEnvAsFloat("IMPACT_FACTOR", 0.1),
			VolatilityFactor: getEnvAsFloat("VOLATILITY_FACTOR", 0.3),
			RiskAversion:     getEnvAsFloat("RISK_AVERSION", 1.0),
		},
		ScheduleSteps:  getEnvAsInt("SCHEDULE_STEPS", 10),
		DefaultFeeTier: getEnv("DEFAULT_FEE_TIER", "Tier 1"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present. The coefficients
// are the one precondition this system enforces by rejection: they are
// process-lifetime calibration, not per-call market input.
func (c *Config) Validate() error {
	if c.Coefficients.ImpactFactor < 0 {
		return fmt.Errorf("IMPACT_FACTOR must be >= 0, got %v", c.Coefficients.ImpactFactor)
	}
	if c.Coefficients.VolatilityFactor < 0 {
		return fmt.Errorf("VOLATILITY_FACTOR must be >= 0, got %v", c.Coefficients.VolatilityFactor)
	}
	if c.Coefficients.RiskAversion < 0 {
		return fmt.Errorf("RISK_AVERSION must be >= 0, got %v", c.Coefficients.RiskAversion)
	}
	if c.ScheduleSteps <= 0 {
		return fmt.Errorf("SCHEDULE_STEPS must be > 0, got %d", c.ScheduleSteps)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
