package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg := parseConfig()

	assert.Equal(t, "audit-bounty-engine", cfg.ServiceName)
	assert.True(t, cfg.Bounty.AutoBountyEnabled)
	assert.Equal(t, 50, cfg.Bounty.HighRiskThreshold)
	assert.Equal(t, uint64(100), cfg.Bounty.PlatformFeeBps)
	assert.Equal(t, 10*time.Minute, cfg.CommitReveal.RevealWindow)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, "memory", cfg.Queue.Provider)
	assert.Equal(t, "memory", cfg.Database.Provider)

	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsExcessiveFee(t *testing.T) {
	cfg := parseConfig()
	cfg.Bounty.PlatformFeeBps = 10001

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "basis points")
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	cfg := parseConfig()
	cfg.Bounty.HighRiskThreshold = 101

	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroRevealWindow(t *testing.T) {
	cfg := parseConfig()
	cfg.CommitReveal.RevealWindow = 0

	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	cfg := parseConfig()
	cfg.Storage.Provider = "tape"
	assert.Error(t, cfg.Validate())

	cfg = parseConfig()
	cfg.Queue.Provider = "carrier-pigeon"
	assert.Error(t, cfg.Validate())

	cfg = parseConfig()
	cfg.Database.Provider = "flatfile"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresBucketForS3(t *testing.T) {
	cfg := parseConfig()
	cfg.Storage.Provider = "s3"
	cfg.Storage.Bucket = ""

	assert.Error(t, cfg.Validate())

	cfg.Storage.Bucket = "artifacts"
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DUR", "90s")
	t.Setenv("TEST_U64", "18000000000000000000")

	assert.Equal(t, "value", getEnv("TEST_STR", "dflt"))
	assert.Equal(t, "dflt", getEnv("TEST_MISSING", "dflt"))
	assert.Equal(t, 42, getInt("TEST_INT", 0))
	assert.Equal(t, 7, getInt("TEST_STR", 7))
	assert.True(t, getBool("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, getDuration("TEST_DUR", "1s"))
	assert.Equal(t, uint64(18000000000000000000), getUint64("TEST_U64", 0))
}
