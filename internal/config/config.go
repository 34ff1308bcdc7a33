package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio = "stdio"
	ModeHTTP  = "http"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	DefaultDataDir             = "data"
	DefaultSummaryCSV          = "projects_summary.csv"
	DefaultTopN                = 10
	DefaultMinQueryWords       = 15
	DefaultMaxDescriptionWords = 100

	// Subdirectories of the data directory
	RawPDFDirName    = "raw_pdfs"
	CSVDirName       = "project_csvs"
	TokenizedDirName = "tokenized_csvs"

	// RegistryDBName is the ingest registry database inside the data
	// directory
	RegistryDBName = "ingests.db"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the projectscout pipeline and servers
type Config struct {
	// Server configuration
	Mode string // "stdio" or "http"
	Host string
	Port int

	// Catalog configuration
	DataDir    string
	SummaryCSV string // file name of the extracted summary CSV

	// Recommendation configuration
	TopN                int
	MinQueryWords       int
	MaxDescriptionWords int

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:                ModeStdio, // Default to stdio mode for MCP compatibility
		Host:                DefaultHost,
		Port:                DefaultPort,
		DataDir:             DefaultDataDir,
		SummaryCSV:          DefaultSummaryCSV,
		TopN:                DefaultTopN,
		MinQueryWords:       DefaultMinQueryWords,
		MaxDescriptionWords: DefaultMaxDescriptionWords,
		Version:             "1.0.0",
		ServerName:          "projectscout",
		LogLevel:            DefaultLogLevel,
		MaxFileSize:         DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.DataDir != "" {
		if expandedPath, err := filepath.Abs(cfg.DataDir); err == nil {
			cfg.DataDir = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PROJECTSCOUT")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("datadir", cfg.DataDir)
	viper.SetDefault("summarycsv", cfg.SummaryCSV)
	viper.SetDefault("top", cfg.TopN)
	viper.SetDefault("minquerywords", cfg.MinQueryWords)
	viper.SetDefault("maxdescwords", cfg.MaxDescriptionWords)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Serve mode: 'stdio' for MCP standard I/O, 'http' for the REST API")
	pflag.String("host", cfg.Host, "Server host address (http mode only)")
	pflag.Int("port", cfg.Port, "Server port (http mode only)")
	pflag.String("datadir", cfg.DataDir, "Data directory holding raw_pdfs, project_csvs and tokenized_csvs")
	pflag.String("summarycsv", cfg.SummaryCSV, "File name for the extracted summary CSV")
	pflag.Int("top", cfg.TopN, "Number of recommendations to return")
	pflag.Int("minquerywords", cfg.MinQueryWords, "Queries with this many words or fewer are rejected")
	pflag.Int("maxdescwords", cfg.MaxDescriptionWords, "Word cap for descriptions parsed from plain text")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("datadir", pflag.Lookup("datadir"))
	_ = viper.BindPFlag("summarycsv", pflag.Lookup("summarycsv"))
	_ = viper.BindPFlag("top", pflag.Lookup("top"))
	_ = viper.BindPFlag("minquerywords", pflag.Lookup("minquerywords"))
	_ = viper.BindPFlag("maxdescwords", pflag.Lookup("maxdescwords"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <command> [args]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nprojectscout - extract project booklets into a catalog and recommend projects\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  ingest <dir>          copy booklet PDFs into the data directory\n")
		fmt.Fprintf(os.Stderr, "  extract <file>        extract one booklet (.pdf or .txt) into a CSV\n")
		fmt.Fprintf(os.Stderr, "  extract-all           extract every ingested PDF into one summary CSV\n")
		fmt.Fprintf(os.Stderr, "  tokenize [csv]        tokenize a summary CSV for recommendation\n")
		fmt.Fprintf(os.Stderr, "  recommend <query...>  rank projects against an interest statement\n")
		fmt.Fprintf(os.Stderr, "  run <query...>        extract-all, tokenize and recommend in one pass\n")
		fmt.Fprintf(os.Stderr, "  stats                 catalog statistics\n")
		fmt.Fprintf(os.Stderr, "  keywords              corpus keywords for the current catalog\n")
		fmt.Fprintf(os.Stderr, "  history               recent extraction runs\n")
		fmt.Fprintf(os.Stderr, "  serve                 run as a server (--mode=stdio|http)\n")
		fmt.Fprintf(os.Stderr, "  version               print version information\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_MODE           Serve mode\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_HOST           Server host\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_PORT           Server port\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_DATADIR        Data directory\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_TOP            Recommendation count\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_LOGLEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  PROJECTSCOUT_MAXFILESIZE    Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.DataDir = viper.GetString("datadir")
	cfg.SummaryCSV = viper.GetString("summarycsv")
	cfg.TopN = viper.GetInt("top")
	cfg.MinQueryWords = viper.GetInt("minquerywords")
	cfg.MaxDescriptionWords = viper.GetInt("maxdescwords")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// RawPDFDir returns the directory ingested booklet PDFs are copied into
func (c *Config) RawPDFDir() string {
	return filepath.Join(c.DataDir, RawPDFDirName)
}

// CSVDir returns the directory extracted summary CSVs are written to
func (c *Config) CSVDir() string {
	return filepath.Join(c.DataDir, CSVDirName)
}

// TokenizedDir returns the directory tokenized CSVs are written to
func (c *Config) TokenizedDir() string {
	return filepath.Join(c.DataDir, TokenizedDirName)
}

// SummaryCSVPath returns the full path of the default summary CSV
func (c *Config) SummaryCSVPath() string {
	return filepath.Join(c.CSVDir(), c.SummaryCSV)
}

// RegistryPath returns the path of the ingest registry database
func (c *Config) RegistryPath() string {
	return filepath.Join(c.DataDir, RegistryDBName)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeHTTP {
		return errors.New("mode must be either 'stdio' or 'http'")
	}

	// Validate port range (only for http mode)
	if c.Mode == ModeHTTP && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate data directory
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}

	// Create the data tree if it does not exist yet
	for _, dir := range []string{c.DataDir, c.RawPDFDir(), c.CSVDir(), c.TokenizedDir()} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create data directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access data directory %s: %w", dir, err)
		}
	}

	if c.SummaryCSV == "" {
		return errors.New("summary CSV name cannot be empty")
	}

	if c.TopN <= 0 {
		return errors.New("top must be positive")
	}

	if c.MinQueryWords < 0 {
		return errors.New("minquerywords cannot be negative")
	}

	if c.MaxDescriptionWords <= 0 {
		return errors.New("maxdescwords must be positive")
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, DataDir: %s, TopN: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.DataDir, c.TopN, c.LogLevel, c.MaxFileSize)
}

// IsHTTPMode returns true if the server should expose the REST API
func (c *Config) IsHTTPMode() bool {
	return c.Mode == ModeHTTP
}

// IsStdioMode returns true if the server should speak MCP over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
