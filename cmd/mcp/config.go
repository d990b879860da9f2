package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	azurearm "github.com/elC0mpa/azure-doctor/service/azure/arm"
)

// Config holds environment-based configuration for the server
type Config struct {
	Credentials azurearm.Credentials
}

// LoadConfig reads credentials from the environment. A .env file in the
// working directory is honored but optional. Missing values are only
// warned about: the server still starts and tools fail at request time.
func LoadConfig(logger *slog.Logger) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Credentials: azurearm.Credentials{
			TenantID:       os.Getenv("AZURE_TENANT_ID"),
			ClientID:       os.Getenv("AZURE_CLIENT_ID"),
			ClientSecret:   os.Getenv("AZURE_CLIENT_SECRET"),
			SubscriptionID: os.Getenv("AZURE_SUBSCRIPTION_ID"),
		},
	}

	for name, value := range map[string]string{
		"AZURE_TENANT_ID":       cfg.Credentials.TenantID,
		"AZURE_CLIENT_ID":       cfg.Credentials.ClientID,
		"AZURE_CLIENT_SECRET":   cfg.Credentials.ClientSecret,
		"AZURE_SUBSCRIPTION_ID": cfg.Credentials.SubscriptionID,
	} {
		if value == "" {
			logger.Warn("missing environment variable, API requests will fail", "name", name)
		}
	}

	return cfg
}
