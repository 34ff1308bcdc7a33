package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("PROJECTSCOUT_MODE")
	os.Unsetenv("PROJECTSCOUT_HOST")
	os.Unsetenv("PROJECTSCOUT_PORT")
	os.Unsetenv("PROJECTSCOUT_DATADIR")
	os.Unsetenv("PROJECTSCOUT_TOP")
	os.Unsetenv("PROJECTSCOUT_LOGLEVEL")
	os.Unsetenv("PROJECTSCOUT_MAXFILESIZE")
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()

	// Point the data dir at a temp location so defaults validate cleanly
	setArgs([]string{"projectscout", "--datadir=" + tempDir})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Verify default values
	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 8080 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 8080)
	}
	if cfg.TopN != 10 {
		t.Errorf("LoadFromFlags() TopN = %v, want %v", cfg.TopN, 10)
	}
	if cfg.MinQueryWords != 15 {
		t.Errorf("LoadFromFlags() MinQueryWords = %v, want %v", cfg.MinQueryWords, 15)
	}
	if cfg.SummaryCSV != "projects_summary.csv" {
		t.Errorf("LoadFromFlags() SummaryCSV = %v, want %v", cfg.SummaryCSV, "projects_summary.csv")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 100*1024*1024)
	}
	if cfg.DataDir == "" {
		t.Error("LoadFromFlags() DataDir should not be empty")
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name            string
		argsTemplate    []string
		wantMode        string
		wantHost        string
		wantPort        int
		wantTopN        int
		wantLogLevel    string
		wantMaxFileSize int64
	}{
		{
			name:            "stdio mode with custom data directory",
			argsTemplate:    []string{"projectscout", "--datadir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantTopN:        10,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "http mode",
			argsTemplate:    []string{"projectscout", "--mode=http", "--datadir=%s"},
			wantMode:        "http",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantTopN:        10,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "http mode with custom host and port",
			argsTemplate:    []string{"projectscout", "--mode=http", "--host=0.0.0.0", "--port=9090", "--datadir=%s"},
			wantMode:        "http",
			wantHost:        "0.0.0.0",
			wantPort:        9090,
			wantTopN:        10,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "debug logging",
			argsTemplate:    []string{"projectscout", "--loglevel=debug", "--datadir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantTopN:        10,
			wantLogLevel:    "debug",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "custom recommendation count",
			argsTemplate:    []string{"projectscout", "--top=3", "--datadir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantTopN:        3,
			wantLogLevel:    "info",
			wantMaxFileSize: 100 * 1024 * 1024,
		},
		{
			name:            "custom max file size",
			argsTemplate:    []string{"projectscout", "--maxfilesize=50000000", "--datadir=%s"},
			wantMode:        "stdio",
			wantHost:        "127.0.0.1",
			wantPort:        8080,
			wantTopN:        10,
			wantLogLevel:    "info",
			wantMaxFileSize: 50000000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original args and environment
			originalArgs := os.Args
			defer func() {
				os.Args = originalArgs
				resetFlags()
				clearEnvVars()
			}()

			// Create temp directory for this test
			tempDir := t.TempDir()

			// Build args with temp directory
			args := make([]string, len(tt.argsTemplate))
			for i, arg := range tt.argsTemplate {
				if arg == "--datadir=%s" {
					args[i] = "--datadir=" + tempDir
				} else {
					args[i] = arg
				}
			}

			setArgs(args)
			resetFlags()
			clearEnvVars()

			cfg, err := LoadFromFlags()
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}

			if cfg.Mode != tt.wantMode {
				t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, tt.wantMode)
			}
			if cfg.Host != tt.wantHost {
				t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, tt.wantHost)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, tt.wantPort)
			}
			if cfg.TopN != tt.wantTopN {
				t.Errorf("LoadFromFlags() TopN = %v, want %v", cfg.TopN, tt.wantTopN)
			}
			if cfg.LogLevel != tt.wantLogLevel {
				t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, tt.wantLogLevel)
			}
			if cfg.MaxFileSize != tt.wantMaxFileSize {
				t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, tt.wantMaxFileSize)
			}
			// DataDir should be expanded to absolute path
			if cfg.DataDir == "" {
				t.Error("LoadFromFlags() DataDir should not be empty")
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// Create temp directory for testing
	tempDir := t.TempDir()

	// Set environment variables
	os.Setenv("PROJECTSCOUT_MODE", "http")
	os.Setenv("PROJECTSCOUT_HOST", "192.168.1.1")
	os.Setenv("PROJECTSCOUT_PORT", "3000")
	os.Setenv("PROJECTSCOUT_DATADIR", tempDir)
	os.Setenv("PROJECTSCOUT_LOGLEVEL", "warn")
	os.Setenv("PROJECTSCOUT_MAXFILESIZE", "200000000")

	setArgs([]string{"projectscout"})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "http" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "http")
	}
	if cfg.Host != "192.168.1.1" {
		t.Errorf("LoadFromFlags() Host = %v, want %v", cfg.Host, "192.168.1.1")
	}
	if cfg.Port != 3000 {
		t.Errorf("LoadFromFlags() Port = %v, want %v", cfg.Port, 3000)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 200000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200000000)
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()

	// Set environment variables
	os.Setenv("PROJECTSCOUT_MODE", "http")
	os.Setenv("PROJECTSCOUT_HOST", "192.168.1.1")
	os.Setenv("PROJECTSCOUT_PORT", "3000")

	// Set args that should override environment
	setArgs([]string{"projectscout", "--mode=stdio", "--host=localhost", "--port=8888", "--datadir=" + tempDir})
	resetFlags()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	// Flags should override environment variables
	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "stdio")
	}
	if cfg.Host != "localhost" {
		t.Errorf("LoadFromFlags() Host = %v, want %v (should override env)", cfg.Host, "localhost")
	}
	if cfg.Port != 8888 {
		t.Errorf("LoadFromFlags() Port = %v, want %v (should override env)", cfg.Port, 8888)
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"projectscout", "--mode=invalid", "--datadir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid mode")
	}
	if err != nil && !containsString(err.Error(), "mode must be either 'stdio' or 'http'") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid mode", err)
	}
}

func TestLoadFromFlags_InvalidPort(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"projectscout", "--mode=http", "--port=99999", "--datadir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid port")
	}
	if err != nil && !containsString(err.Error(), "port must be between 1 and 65535") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid port", err)
	}
}

func TestLoadFromFlags_InvalidLogLevel(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	tempDir := t.TempDir()
	setArgs([]string{"projectscout", "--loglevel=invalid", "--datadir=" + tempDir})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected error for invalid log level")
	}
	if err != nil && !containsString(err.Error(), "invalid log level") {
		t.Errorf("LoadFromFlags() error = %v, want error about invalid log level", err)
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"projectscout", "--version"})
	resetFlags()
	clearEnvVars()

	_, err := LoadFromFlags()
	if err == nil {
		t.Error("LoadFromFlags() expected version error")
	}
	if err != nil && err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}

// Helper function to check if a string contains a substring
func containsString(s, substr string) bool {
	return len(s) >= len(substr) &&
		(s == substr ||
			(len(s) > len(substr) &&
				(s[:len(substr)] == substr ||
					s[len(s)-len(substr):] == substr ||
					findSubstring(s, substr))))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
