package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_FailsWhenImageStorageCannotStart(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	t.Setenv("OTEL_EXPORT_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("IMAGE_STORAGE", "disk")
	t.Setenv("IMAGE_DIR", filepath.Join(blocker, "img"))

	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "image storage")
}

func TestRun_FailsOnInvalidConfiguration(t *testing.T) {
	t.Setenv("OTEL_EXPORT_ENABLED", "false")
	t.Setenv("IMAGE_STORAGE", "ftp")

	err := run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}
