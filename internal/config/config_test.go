package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Port:            "8080",
		ShutdownTimeout: 10 * time.Second,
		DBPath:          "./data/trips.db",
		JWTSecret:       "0123456789abcdef",
		LogLevel:        "info",
		MetricsEnabled:  true,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errorString string
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.DBPath = " " },
			errorString: "database path cannot be empty",
		},
		{
			name:        "short secret",
			mutate:      func(c *Config) { c.JWTSecret = "short" },
			errorString: "JWT_SECRET must be at least 16 characters",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "zero shutdown timeout",
			mutate:      func(c *Config) { c.ShutdownTimeout = 0 },
			errorString: "invalid shutdown timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorString == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.errorString)
			}
			if !strings.Contains(err.Error(), tt.errorString) {
				t.Errorf("Validate() error = %q, want it to contain %q", err.Error(), tt.errorString)
			}
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := Config{Port: "0", LogLevel: "loud"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port 0", "database path", "JWT_SECRET", "log level", "shutdown timeout"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "LOG_LEVEL", "METRICS_ENABLED", "SHUTDOWN_TIMEOUT"} {
			t.Setenv(key, "")
		}

		cfg := Load()
		if cfg.Port != "8080" {
			t.Errorf("Port = %s, want 8080", cfg.Port)
		}
		if cfg.DBPath != "./data/trips.db" {
			t.Errorf("DBPath = %s, want ./data/trips.db", cfg.DBPath)
		}
		if cfg.LogLevel != "info" || !cfg.MetricsEnabled || cfg.ShutdownTimeout != 10*time.Second {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
	})

	t.Run("environment and dotenv", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		for _, key := range []string{"PORT", "DB_PATH", "JWT_SECRET", "LOG_LEVEL", "METRICS_ENABLED", "SHUTDOWN_TIMEOUT"} {
			t.Setenv(key, "")
		}
		// godotenv never overrides a variable that exists, even an empty one.
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("DB_PATH")

		env := "JWT_SECRET=from-dotenv-file-123\nDB_PATH=/tmp/dotenv.db\n"
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		t.Setenv("PORT", "9090")
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("METRICS_ENABLED", "false")
		t.Setenv("SHUTDOWN_TIMEOUT", "3s")

		cfg := Load()
		if cfg.Port != "9090" || cfg.LogLevel != "debug" || cfg.MetricsEnabled || cfg.ShutdownTimeout != 3*time.Second {
			t.Errorf("env not applied: %+v", cfg)
		}
		if cfg.JWTSecret != "from-dotenv-file-123" || cfg.DBPath != "/tmp/dotenv.db" {
			t.Errorf(".env not applied: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() unexpected error: %v", err)
		}
	})
}
