package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/ledgerconv-go/internal/logging"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/classify"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/payroll"
)

// Config captures the runtime settings for the converters.
type Config struct {
	LogLevel string        `yaml:"logLevel"`
	Gemini   GeminiConfig  `yaml:"gemini"`
	Asset    AssetConfig   `yaml:"asset"`
	Payroll  PayrollConfig `yaml:"payroll"`
}

// GeminiConfig configures the classifier used for asset types and receipts.
type GeminiConfig struct {
	APIKey   string        `yaml:"apiKey"`
	Model    string        `yaml:"model"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AssetConfig configures the asset ledger conversion.
type AssetConfig struct {
	// DefaultClientName is written when the ledger has no client name.
	DefaultClientName string `yaml:"defaultClientName"`
	ClientCode        string `yaml:"clientCode"`
	Version           string `yaml:"version"`
	FiscalFrom        string `yaml:"fiscalFrom"`
	FiscalTo          string `yaml:"fiscalTo"`
	SkipClassify      bool   `yaml:"skipClassify"`
}

// PayrollConfig configures the payslip conversion.
type PayrollConfig struct {
	MinRows int `yaml:"minRows"`
	// FormattedValues reads cells as displayed instead of raw values.
	FormattedValues bool `yaml:"formattedValues"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Gemini: GeminiConfig{
			Model:    classify.DefaultModel,
			Endpoint: classify.DefaultEndpoint,
			Timeout:  60 * time.Second,
		},
		Asset: AssetConfig{
			DefaultClientName: "株式会社二垣経営研究所",
		},
		Payroll: PayrollConfig{
			MinRows: payroll.DefaultMinRows,
		},
	}
}

// Load builds the configuration by merging defaults, the YAML file at path
// (optional), a .env file, and the environment. An empty envFile reads ./.env
// when present. Command line
// flags are applied by the caller afterwards.
func Load(path, envFile string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("LEDGERCONV_CONFIG_FILE")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// Only the implicit ./.env may be absent; a named file must exist.
	implicit := envFile == ""
	if implicit {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !(implicit && errors.Is(err, fs.ErrNotExist)) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	// Apply env overrides after file load so that env > file.
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values a file or the environment may have broken.
func (c Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Gemini.Timeout < 0 {
		return errors.New("gemini timeout must be non-negative")
	}
	if c.Payroll.MinRows < 0 {
		return errors.New("payroll minRows must be non-negative")
	}
	return nil
}

// Classifier returns the configured classifier. Without an API key every
// call reports classify.ErrUnavailable.
func (c Config) Classifier() classify.Classifier {
	if c.Gemini.APIKey == "" {
		return classify.Nop{}
	}
	return classify.NewGemini(c.Gemini.Endpoint, c.Gemini.Model, c.Gemini.APIKey, c.Gemini.Timeout)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path provided by the operator
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	type fileConfig Config
	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	mergeConfigs(cfg, Config(fileCfg))
	return nil
}

func mergeConfigs(base *Config, override Config) {
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Timeout != 0 {
		base.Gemini.Timeout = override.Gemini.Timeout
	}
	if override.Asset.DefaultClientName != "" {
		base.Asset.DefaultClientName = override.Asset.DefaultClientName
	}
	if override.Asset.ClientCode != "" {
		base.Asset.ClientCode = override.Asset.ClientCode
	}
	if override.Asset.Version != "" {
		base.Asset.Version = override.Asset.Version
	}
	if override.Asset.FiscalFrom != "" {
		base.Asset.FiscalFrom = override.Asset.FiscalFrom
	}
	if override.Asset.FiscalTo != "" {
		base.Asset.FiscalTo = override.Asset.FiscalTo
	}
	if override.Asset.SkipClassify {
		base.Asset.SkipClassify = true
	}
	if override.Payroll.MinRows != 0 {
		base.Payroll.MinRows = override.Payroll.MinRows
	}
	if override.Payroll.FormattedValues {
		base.Payroll.FormattedValues = true
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEDGERCONV_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("LEDGERCONV_GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("LEDGERCONV_GEMINI_ENDPOINT"); v != "" {
		cfg.Gemini.Endpoint = v
	}
	if v := os.Getenv("LEDGERCONV_GEMINI_TIMEOUT"); v != "" {
		if dv, err := time.ParseDuration(v); err == nil {
			cfg.Gemini.Timeout = dv
		}
	}
	if v := os.Getenv("LEDGERCONV_CLIENT_NAME"); v != "" {
		cfg.Asset.DefaultClientName = v
	}
	if v := os.Getenv("LEDGERCONV_ASSET_SKIP_CLASSIFY"); v != "" {
		if bv, err := strconv.ParseBool(v); err == nil {
			cfg.Asset.SkipClassify = bv
		}
	}
	if v := os.Getenv("LEDGERCONV_PAYROLL_MIN_ROWS"); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			cfg.Payroll.MinRows = iv
		}
	}
}
