package main

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, newLogger("debug", io.Discard).GetLevel())
	assert.Equal(t, zerolog.WarnLevel, newLogger("WARN", io.Discard).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("", io.Discard).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, newLogger("loud", io.Discard).GetLevel())
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("SURREAL_URL", "ws://127.0.0.1:1")
	t.Setenv("LOG_LEVEL", "info")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_UsageErrorsPrintEmptyObject(t *testing.T) {
	repo := t.TempDir()
	cases := map[string][]string{
		"analyze unknown provider": {repo, "key", "anthropic"},
		"analyze missing args":     {repo, "key"},
		"batch unknown provider":   {"batch", "key", "anthropic", repo},
		"batch missing args":       {"batch", "key"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, args...)
			assert.Equal(t, exitUsage, code)
			assert.Equal(t, "{}\n", stdout)
		})
	}
}

func TestRun_MissingRepositoryExitsZero(t *testing.T) {
	code, stdout, stderr := runCLI(t, filepath.Join(t.TempDir(), "gone"), "key", "gemini")
	assert.Equal(t, 0, code)
	assert.Equal(t, "{}\n", stdout)
	assert.Contains(t, stderr, "analysis failed")
}

func TestRun_HistoryRejectsNonPositiveLimit(t *testing.T) {
	for _, n := range []string{"0", "-1"} {
		code, stdout, stderr := runCLI(t, "history", "-n", n)
		assert.Equal(t, 1, code, n)
		assert.Empty(t, stdout, n)
		assert.Contains(t, stderr, "must be at least 1", n)
	}
}
