package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dealstackr/dealstackr/internal/display"
	"github.com/dealstackr/dealstackr/internal/score"
	"github.com/dealstackr/dealstackr/internal/stack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFeedFile drops a small feed with deliberate field-name drift so the
// loader's alias handling gets exercised end to end.
func writeFeedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "offers.json")
	data := `[
		{"id": "a1", "card": "Amex Gold", "merchant": "Whole Foods", "offerText": "Get $50 back on $250+", "stackable": true, "categories": ["grocery"]},
		{"id": "b2", "issuer": "Chase Freedom", "store": "Shell", "offer": "5% back on $100"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func decodeErrorPayload(t *testing.T, stderr *bytes.Buffer) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &payload), stderr.String())
	errorObject, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	return errorObject
}

func TestRunCLI_CompletionZsh(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"completion", "zsh"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "#compdef dealstackr")
	assert.Empty(t, stderr.String())
}

func TestRunCLI_HelpStack(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"help", "stack"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "dealstackr stack [flags]")
	assert.Empty(t, stderr.String())
}

func TestRunCLI_QuickStartWhenPiped(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{}, &stdout, &stderr)

	require.Equal(t, 0, code)
	var payload quickStartJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payload))
	assert.Equal(t, "dealstackr", payload.Name)
	assert.Empty(t, stderr.String())
}

func TestRunCLI_TolerantRewriteShowsNote(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"stack", "-cart", "100", "--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "dealstackr stack [flags]")
	assert.Contains(t, stderr.String(), "interpreted `-cart` as `--cart`")
}

func TestRunCLI_DoubleDashBoundary(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"stack", "--", "cart", "400"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "a $0.00 cart")
	assert.Empty(t, stderr.String())
}

func TestRunCLI_ScoreJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"score", "Get $50 back on $250+", "--stackable", "--json"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())

	var payload display.ScoreJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &payload))
	assert.Equal(t, "Get $50 back on $250+", payload.Input)
	require.NotNil(t, payload.Value.AmountBack)
	assert.InDelta(t, 50, *payload.Value.AmountBack, 0.001)
	require.NotNil(t, payload.Value.MinSpend)
	assert.InDelta(t, 250, *payload.Value.MinSpend, 0.001)
	assert.Equal(t, 78, payload.Score.FinalScore)
	assert.Equal(t, score.BandStrong, payload.Score.Band)
}

func TestRunCLI_StackJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"stack", "--cart", "100", "--promo-percent", "10", "--email-percent", "10", "--json"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())

	var result stack.Result
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.InDelta(t, 81, result.NetSpend, 0.001)
	assert.InDelta(t, 19, result.TotalSavings, 0.001)
	assert.Equal(t, 2, result.StackLayers)
	assert.Equal(t, stack.TierDouble, result.Tier)
}

func TestRunCLI_ProgramsJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"programs", "--json"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())

	var programs []display.ProgramJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &programs))
	require.Len(t, programs, 5)
	assert.Equal(t, "Membership Rewards", programs[0].Program)
	assert.InDelta(t, 1.5, programs[0].ScreeningCents, 0.001)
	assert.InDelta(t, 2.0, programs[0].RedemptionCents, 0.001)
}

func TestRunCLI_RankFeedJSON(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	feedPath := writeFeedFile(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--input", feedPath, "--json", "--limit", "1"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())

	var offers []display.OfferJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "a1", offers[0].ID)
	assert.Equal(t, 78, offers[0].Score)
	assert.Equal(t, "strong", offers[0].Band)
}

func TestRunCLI_RankQueryMatchesAliasedFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	feedPath := writeFeedFile(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--input", feedPath, "--query", "shell", "--json"}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())

	var offers []display.OfferJSON
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &offers))
	require.Len(t, offers, 1)
	assert.Equal(t, "b2", offers[0].ID)
	assert.Equal(t, "Chase Freedom", offers[0].Card)
}

func TestRunCLI_RankNoMatchesExitsNotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	feedPath := writeFeedFile(t)
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--input", feedPath, "--band", "elite", "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitNotFound, code)
	errorObject := decodeErrorPayload(t, &stderr)
	assert.Equal(t, "NOT_FOUND", errorObject["code"])
}

func TestRunCLI_MissingFeedExitsFeedError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--input", filepath.Join(t.TempDir(), "missing.json"), "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitFeed, code)
	errorObject := decodeErrorPayload(t, &stderr)
	assert.Equal(t, "FEED_ERROR", errorObject["code"])
	assert.EqualValues(t, ExitFeed, errorObject["exitCode"])
}

func TestRunCLI_NoInputExitsInvalidArgs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--band", "elite"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	errorObject := decodeErrorPayload(t, &stderr)
	assert.Equal(t, "INVALID_ARGS", errorObject["code"])
	assert.Contains(t, errorObject["message"], "--input")
}

func TestRunCLI_InvalidSortExitsInvalidArgs(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"--sort", "bogus", "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	errorObject := decodeErrorPayload(t, &stderr)
	assert.Equal(t, "INVALID_ARGS", errorObject["code"])
	assert.Contains(t, errorObject["message"], "--sort")
}

func TestRunCLI_UnknownProgramExitsInvalidArgs(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"stack", "--card-points", "1000", "--card-program", "zorp", "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	errorObject := decodeErrorPayload(t, &stderr)
	assert.Equal(t, "INVALID_ARGS", errorObject["code"])
	assert.Contains(t, errorObject["message"], "zorp")
}

func TestRunCLI_MissingConfigExitsInvalidArgs(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	code := runCLI([]string{"score", "5% back", "--config", filepath.Join(t.TempDir(), "nope.yaml"), "--json"}, &stdout, &stderr)

	assert.Equal(t, ExitInvalidArgs, code)
	errorObject := decodeErrorPayload(t, &stderr)
	assert.Equal(t, "INVALID_ARGS", errorObject["code"])
}
