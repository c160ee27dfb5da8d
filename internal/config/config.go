package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings
type Config struct {
	// Analysis engine settings
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Storage configuration
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`

	// GitHub configuration
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

type AnalysisConfig struct {
	Windows      []int `mapstructure:"windows" yaml:"windows" validate:"required,min=1,distinct,dive,gte=0"`
	TrendWindows []int `mapstructure:"trend_windows" yaml:"trend_windows" validate:"dive,gte=0"`
	TrendMonths  int   `mapstructure:"trend_months" yaml:"trend_months" validate:"gte=0,lte=600"`
	RookieDays   int   `mapstructure:"rookie_days" yaml:"rookie_days" validate:"gt=0"`
	TopK         int   `mapstructure:"top_k" yaml:"top_k" validate:"gte=0"` // display truncation only
	Parallelism  int   `mapstructure:"parallelism" yaml:"parallelism" validate:"gte=0"`
	CacheSize    int   `mapstructure:"cache_size" yaml:"cache_size" validate:"gt=0"`
	WeekBuckets  int   `mapstructure:"week_buckets" yaml:"week_buckets" validate:"gt=0"`
	MonthBuckets int   `mapstructure:"month_buckets" yaml:"month_buckets" validate:"gt=0"`
}

type StorageConfig struct {
	Type        string `mapstructure:"type" yaml:"type" validate:"oneof=sqlite postgres none"`
	LocalPath   string `mapstructure:"local_path" yaml:"local_path" validate:"required_if=Type sqlite"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn" validate:"required_if=Type postgres"`
	CachePath   string `mapstructure:"cache_path" yaml:"cache_path"` // bbolt run cache, empty disables
}

type GitHubConfig struct {
	Token      string `mapstructure:"token" yaml:"token"`
	RateLimit  int    `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gt=0"` // Requests per second
	MaxWorkers int    `mapstructure:"max_workers" yaml:"max_workers" validate:"gt=0"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	File  string `mapstructure:"file" yaml:"file"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// Default returns default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Analysis: AnalysisConfig{
			Windows:      []int{30, 90, 180, 365, 36500},
			TrendWindows: []int{30},
			TrendMonths:  24,
			RookieDays:   365,
			TopK:         100,
			CacheSize:    256,
			WeekBuckets:  104,
			MonthBuckets: 24,
		},
		Storage: StorageConfig{
			Type:      "sqlite",
			LocalPath: filepath.Join(homeDir, ".teamgraph", "local.db"),
			CachePath: filepath.Join(homeDir, ".teamgraph", "runs.db"),
		},
		GitHub: GitHubConfig{
			RateLimit:  10, // 10 requests per second
			MaxWorkers: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// setDefaults registers every leaf key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("analysis.windows", cfg.Analysis.Windows)
	v.SetDefault("analysis.trend_windows", cfg.Analysis.TrendWindows)
	v.SetDefault("analysis.trend_months", cfg.Analysis.TrendMonths)
	v.SetDefault("analysis.rookie_days", cfg.Analysis.RookieDays)
	v.SetDefault("analysis.top_k", cfg.Analysis.TopK)
	v.SetDefault("analysis.parallelism", cfg.Analysis.Parallelism)
	v.SetDefault("analysis.cache_size", cfg.Analysis.CacheSize)
	v.SetDefault("analysis.week_buckets", cfg.Analysis.WeekBuckets)
	v.SetDefault("analysis.month_buckets", cfg.Analysis.MonthBuckets)

	v.SetDefault("storage.type", cfg.Storage.Type)
	v.SetDefault("storage.local_path", cfg.Storage.LocalPath)
	v.SetDefault("storage.postgres_dsn", cfg.Storage.PostgresDSN)
	v.SetDefault("storage.cache_path", cfg.Storage.CachePath)

	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)
	v.SetDefault("github.max_workers", cfg.GitHub.MaxWorkers)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.json", cfg.Logging.JSON)
}

// Load loads configuration from file, .env files and TEAMGRAPH_*
// environment variables, then validates it
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// TEAMGRAPH_ANALYSIS_TOP_K overrides analysis.top_k
	v.SetEnvPrefix("TEAMGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".teamgraph")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".teamgraph"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence. godotenv never
// overrides variables that are already set, so earlier files win.
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}

	// Also try loading from home directory
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".teamgraph", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies the conventional unprefixed variables
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" && cfg.GitHub.Token == "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" && cfg.Storage.PostgresDSN == "" {
		cfg.Storage.PostgresDSN = dsn
	}

	cfg.Storage.LocalPath = expandPath(cfg.Storage.LocalPath)
	cfg.Storage.CachePath = expandPath(cfg.Storage.CachePath)
	cfg.Logging.File = expandPath(cfg.Logging.File)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, c)

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
