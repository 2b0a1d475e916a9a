package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("amount-mode", "legacy", "")
	fs.Int("workers", 1, "")
	fs.String("store", "finscan-ledger.yaml", "")
	return fs
}

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.MinSegmentLength)
	assert.Equal(t, 100, cfg.DescriptionLimit)
	assert.Equal(t, "legacy", cfg.AmountMode)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, "finscan-ledger.yaml", cfg.StorePath)
	assert.True(t, cfg.UseFingerprint)
	assert.Equal(t, "YNAB_TOKEN", cfg.YNAB.TokenEnv)
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestBuildPrecedence(t *testing.T) {
	path := writeConfig(t, `
amount_mode: locale
workers: 2
description_limit: 40
log_level: debug
use_fingerprint: false
keyword_groups:
  Pets: [vet, petshop]
ynab:
  budget_id: budget-1
`)
	t.Setenv("FINSCAN_WORKERS", "3")
	t.Setenv("FINSCAN_YNAB_BUDGET_ID", "budget-env")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--store", "/tmp/other.yaml"}))

	cfg, err := Build(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "locale", cfg.AmountMode, "config file beats defaults and unset flags")
	assert.Equal(t, 3, cfg.Workers, "env beats config file")
	assert.Equal(t, "/tmp/other.yaml", cfg.StorePath, "set flag beats everything")
	assert.Equal(t, 40, cfg.DescriptionLimit)
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.False(t, cfg.UseFingerprint)
	assert.Equal(t, "budget-env", cfg.YNAB.BudgetID)
	assert.Equal(t, []string{"vet", "petshop"}, cfg.KeywordGroups["pets"])
}

func TestBuildMissingExplicitFile(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			MinSegmentLength: 10, DescriptionLimit: 100, AmountMode: "legacy",
			Workers: 1, StorePath: "ledger.yaml", LogLevel: "info",
		}
	}
	valid := base()
	require.NoError(t, valid.Validate())

	tests := map[string]func(*Config){
		"amount mode": func(c *Config) { c.AmountMode = "european" },
		"min length":  func(c *Config) { c.MinSegmentLength = 0 },
		"desc limit":  func(c *Config) { c.DescriptionLimit = -1 },
		"workers":     func(c *Config) { c.Workers = 0 },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
		"store path":  func(c *Config) { c.StorePath = " " },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	path := writeConfig(t, "amount_mode: roman\n")
	_, err := Build(path, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestExtractorFromConfig(t *testing.T) {
	path := writeConfig(t, "amount_mode: locale\nkeyword_groups:\n  shopping: [amazon]\n")
	cfg, err := Build(path, nil)
	require.NoError(t, err)

	d, err := cfg.Extractor().Extract("01/02/2024 AMAZON MKTPLACE purchase R$ 1.299,90", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1299.9, d.Amount, 1e-9)
	assert.Len(t, cfg.Segmenter().Split("short\nlong enough line"), 1)
}

func TestToken(t *testing.T) {
	t.Setenv("MY_YNAB", "secret")
	cfg := &Config{YNAB: YNAB{TokenEnv: "MY_YNAB"}}
	assert.Equal(t, "secret", cfg.Token())
}
