package config

import (
	"fmt"
	"os"
)

// TestConfig holds configuration for E2E/smoke tests
type TestConfig struct {
	// API endpoint configuration
	BaseURL string // e.g., "https://staging.delbirestaurant.com/api/v1"

	// Authentication: a pre-issued admin bearer token for the back-office
	// endpoints
	AdminToken string

	// Test timeouts
	HealthCheckTimeout int // seconds
	APICallTimeout     int // seconds
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() (*TestConfig, error) {
	baseURL := os.Getenv("TEST_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/v1" // Default for local testing
	}

	adminToken := os.Getenv("TEST_ADMIN_TOKEN")
	if adminToken == "" {
		return nil, fmt.Errorf("TEST_ADMIN_TOKEN is required")
	}

	return &TestConfig{
		BaseURL:            baseURL,
		AdminToken:         adminToken,
		HealthCheckTimeout: 30,
		APICallTimeout:     10,
	}, nil
}
