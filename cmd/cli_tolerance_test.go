package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCLIArgs_RewritesCommonFlagSyntax(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-limit", "10", "json"})

	assert.Equal(t, []string{"--limit", "10", "--json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesTypoFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--limt", "10"})

	assert.Equal(t, []string{"--limit", "10"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesAliasFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"--feed", "offers.json"})

	assert.Equal(t, []string{"--input", "offers.json"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesCommandTypo(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"stakc", "--cart", "400"})

	assert.Equal(t, []string{"stack", "--cart", "400"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_RewritesBareFlagAfterStack(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"stack", "cart", "400"})

	assert.Equal(t, []string{"stack", "--cart", "400"}, args)
	assert.NotEmpty(t, notes)
}

func TestNormalizeCLIArgs_LeavesScoreTextAlone(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"score", "Get", "$50", "back", "on", "$250+"})

	assert.Equal(t, []string{"score", "Get", "$50", "back", "on", "$250+"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteCompletionPositionalArgs(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"completion", "zsh"})

	assert.Equal(t, []string{"completion", "zsh"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_DoesNotRewriteHelpCommandArgAsFlag(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"help", "stack"})

	assert.Equal(t, []string{"help", "stack"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_RespectsDoubleDashBoundary(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"stack", "--", "cart", "400"})

	assert.Equal(t, []string{"stack", "--", "cart", "400"}, args)
	assert.Empty(t, notes)
}

func TestNormalizeCLIArgs_LeavesKnownShorthandUntouched(t *testing.T) {
	args, notes := normalizeCLIArgs([]string{"-i", "offers.json", "-n", "5"})

	assert.Equal(t, []string{"-i", "offers.json", "-n", "5"}, args)
	assert.Empty(t, notes)
}

func TestExplainCLIError_UnknownFlagIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown flag: --limt"))

	assert.Contains(t, msg, "Try `--limit`.")
	assert.Contains(t, msg, "dealstackr --input offers.json")
	assert.Contains(t, msg, "dealstackr stack --cart 400 --promo-percent 20")
}

func TestExplainCLIError_UnknownCommandIncludesSuggestionAndExamples(t *testing.T) {
	msg := explainCLIError(errors.New("unknown command \"stakc\" for \"dealstackr\""))

	assert.Contains(t, msg, "Did you mean `stack`?")
	assert.Contains(t, msg, "dealstackr score \"Get $50 back on $250+\"")
	assert.Contains(t, msg, "dealstackr stack --cart 400 --promo-percent 20")
}
