package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test-secret")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Auth.SecretKey != "test-secret" {
			t.Errorf("Expected SecretKey to be 'test-secret', got '%s'", cfg.Auth.SecretKey)
		}
		if cfg.Server.Port != "8080" {
			t.Errorf("Expected default port '8080', got '%s'", cfg.Server.Port)
		}
		if cfg.Recipes.MinCookingTime != 1 || cfg.Recipes.MaxCookingTime != 32000 {
			t.Errorf("Unexpected cooking time bounds %+v", cfg.Recipes)
		}
		if cfg.API.PageSize != 6 {
			t.Errorf("Expected default page size 6, got %d", cfg.API.PageSize)
		}
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test-secret")
		t.Setenv("PORT", "9000")
		t.Setenv("MAX_COOKING_TIME", "600")
		t.Setenv("TOKEN_TTL", "2h")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://foodgram.example")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Server.Port != "9000" {
			t.Errorf("Expected port '9000', got '%s'", cfg.Server.Port)
		}
		if cfg.Recipes.MaxCookingTime != 600 {
			t.Errorf("Expected MaxCookingTime 600, got %d", cfg.Recipes.MaxCookingTime)
		}
		if cfg.Auth.TokenTTL != 2*time.Hour {
			t.Errorf("Expected TokenTTL 2h, got %v", cfg.Auth.TokenTTL)
		}
		if len(cfg.API.CORSOrigins) != 2 || cfg.API.CORSOrigins[1] != "https://foodgram.example" {
			t.Errorf("Unexpected CORS origins %v", cfg.API.CORSOrigins)
		}
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "foodgram.yaml")
		content := "database:\n  path: /tmp/foodgram-test.db\napi:\n  page_size: 12\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, path)
		t.Setenv("SECRET_KEY", "test-secret")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Database.Path != "/tmp/foodgram-test.db" {
			t.Errorf("Expected database path from file, got '%s'", cfg.Database.Path)
		}
		if cfg.API.PageSize != 12 {
			t.Errorf("Expected page size 12, got %d", cfg.API.PageSize)
		}
	})

	t.Run("MissingSecretKey", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing SECRET_KEY, got nil")
		}
		expectedError := "SECRET_KEY environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidBounds", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test-secret")
		t.Setenv("MIN_AMOUNT", "0")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for MIN_AMOUNT=0, got nil")
		}
	})
}
