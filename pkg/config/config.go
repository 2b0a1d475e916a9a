package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/finscan/pkg/extract"
	"github.com/yurifrl/finscan/pkg/segment"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

type YNAB struct {
	TokenEnv string `mapstructure:"token_env" yaml:"token_env"`
	BudgetID string `mapstructure:"budget_id" yaml:"budget_id"`
}

type Config struct {
	MinSegmentLength int                 `mapstructure:"min_segment_length" yaml:"min_segment_length"`
	DescriptionLimit int                 `mapstructure:"description_limit" yaml:"description_limit"`
	AmountMode       string              `mapstructure:"amount_mode" yaml:"amount_mode"`
	Workers          int                 `mapstructure:"workers" yaml:"workers"`
	StorePath        string              `mapstructure:"store_path" yaml:"store_path"`
	Output           string              `mapstructure:"output" yaml:"output"`
	LogLevel         string              `mapstructure:"log_level" yaml:"log_level"`
	KeywordGroups    map[string][]string `mapstructure:"keyword_groups" yaml:"keyword_groups"`
	UseFingerprint   bool                `mapstructure:"use_fingerprint" yaml:"use_fingerprint"`
	YNAB             YNAB                `mapstructure:"ynab" yaml:"ynab"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("min_segment_length", segment.DefaultMinLength)
	v.SetDefault("description_limit", extract.DefaultDescriptionLimit)
	v.SetDefault("amount_mode", string(extract.AmountLegacy))
	v.SetDefault("workers", 1)
	v.SetDefault("store_path", "finscan-ledger.yaml")
	v.SetDefault("output", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("use_fingerprint", true)
	v.SetDefault("ynab.token_env", "YNAB_TOKEN")
	v.SetDefault("ynab.budget_id", "")
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"min-length":        "min_segment_length",
	"description-limit": "description_limit",
	"amount-mode":       "amount_mode",
	"workers":           "workers",
	"store":             "store_path",
	"output":            "output",
	"log-level":         "log_level",
	"budget":            "ynab.budget_id",
}

// Build resolves the configuration. Later sources win: defaults, the config
// file (cfgFile, or finscan.yaml in the working directory when present),
// FINSCAN_* environment variables (a .env file is loaded first), then flags
// that were explicitly set.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("finscan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("FINSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := extract.ParseAmountMode(c.AmountMode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.MinSegmentLength <= 0 {
		return fmt.Errorf("%w: min_segment_length must be positive, got %d", ErrInvalid, c.MinSegmentLength)
	}
	if c.DescriptionLimit <= 0 {
		return fmt.Errorf("%w: description_limit must be positive, got %d", ErrInvalid, c.DescriptionLimit)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("%w: store_path is required", ErrInvalid)
	}
	return nil
}

// Extractor builds the extraction engine described by the config.
func (c *Config) Extractor() *extract.Extractor {
	mode, _ := extract.ParseAmountMode(c.AmountMode)
	return extract.New(extract.Options{
		DescriptionLimit: c.DescriptionLimit,
		AmountMode:       mode,
		KeywordGroups:    extract.DefaultKeywordGroups().Merge(c.KeywordGroups),
		Workers:          c.Workers,
	})
}

func (c *Config) Segmenter() *segment.Segmenter {
	return segment.New(c.MinSegmentLength)
}

// Level returns the configured log level; Validate guarantees it parses.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Token reads the YNAB token from the configured environment variable.
func (c *Config) Token() string {
	return os.Getenv(c.YNAB.TokenEnv)
}
