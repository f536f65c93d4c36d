package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValidFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse([]string{"-plan", "plan.hcl", "-log-level", "debug", "-log-format", "json"}, &out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, cfg)
	assert.Equal(t, "plan.hcl", cfg.PlanPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestParseShorthandAndPositional(t *testing.T) {
	t.Run("shorthand flag", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-p", "short.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "short.hcl", cfg.PlanPath)
	})

	t.Run("positional argument", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"positional.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "positional.hcl", cfg.PlanPath)
	})

	t.Run("flag wins over positional", func(t *testing.T) {
		var out bytes.Buffer
		cfg, _, err := Parse([]string{"-plan", "flagged.hcl", "positional.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "flagged.hcl", cfg.PlanPath)
	})
}

func TestParseNoPathPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, shouldExit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"bad log level", []string{"-log-level", "loud", "plan.hcl"}, "invalid log-level"},
		{"bad log format", []string{"-log-format", "xml", "plan.hcl"}, "invalid log-format"},
		{"bad project start", []string{"-project-start", "March 1st", "plan.hcl"}, "invalid project-start"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParseProjectStart(t *testing.T) {
	var out bytes.Buffer
	cfg, _, err := Parse([]string{"-project-start", "2026-03-01 09:00", "plan.hcl"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01 09:00", cfg.ProjectStart)
}
