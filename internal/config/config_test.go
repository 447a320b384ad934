package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dealstackr/dealstackr/internal/config"
	"github.com/dealstackr/dealstackr/internal/offer"
	"github.com/dealstackr/dealstackr/internal/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingDefaultYieldsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, score.DefaultWeights(), cfg.Scoring)
	assert.Empty(t, cfg.Feed)
}

func TestLoad_ExplicitMissingFileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestLoad_PartialOverrideKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "scoring:\n  stackable_bonus: 25\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 25, cfg.Scoring.StackableBonus, 0.001)
	assert.InDelta(t, 60, cfg.Scoring.MaxAmountBack, 0.001)
	assert.InDelta(t, 400, cfg.Scoring.MaxMinSpend, 0.001)
}

func TestLoad_FeedPath(t *testing.T) {
	path := writeConfig(t, "feed: /var/lib/dealstackr/offers.json\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/dealstackr/offers.json", cfg.Feed)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "scoring: [broken\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_HomeConfigPickedUp(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, config.DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, config.DefaultConfigFile),
		[]byte("scoring:\n  max_min_spend: 500\n"), 0o644))

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.InDelta(t, 500, cfg.Scoring.MaxMinSpend, 0.001)
}

func TestScreeningValues_OverrideDoesNotTouchRedemption(t *testing.T) {
	path := writeConfig(t, "screening_point_values:\n  thankyou: 1.4\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	screening := cfg.ScreeningValues()
	redemption := cfg.RedemptionValues()

	assert.InDelta(t, 1.4, screening[offer.ThankYouPoints], 0.001)
	assert.InDelta(t, 1.8, redemption[offer.ThankYouPoints], 0.001)
	// untouched programs keep defaults
	assert.InDelta(t, 1.5, screening[offer.MembershipRewards], 0.001)
}

func TestRedemptionValues_Override(t *testing.T) {
	path := writeConfig(t, "redemption_point_values:\n  venture_miles: 1.9\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	redemption := cfg.RedemptionValues()
	screening := cfg.ScreeningValues()

	assert.InDelta(t, 1.9, redemption[offer.VentureMiles], 0.001)
	assert.InDelta(t, 1.0, screening[offer.VentureMiles], 0.001)
}

func TestValues_ProgramNameTolerance(t *testing.T) {
	cfg := config.Default()
	cfg.ScreeningPoints = map[string]float64{
		"Ultimate Rewards":   2.2,
		"membership_rewards": 1.9,
		"not-a-program":      9.9,
	}

	screening := cfg.ScreeningValues()

	assert.InDelta(t, 2.2, screening[offer.UltimateRewards], 0.001)
	assert.InDelta(t, 1.9, screening[offer.MembershipRewards], 0.001)
	assert.Len(t, screening, 5) // unknown names are ignored
}
