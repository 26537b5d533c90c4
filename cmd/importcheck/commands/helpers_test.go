package commands

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/internal/observability"
)

func noopObservabilityInit(_ observability.Config) (observability.Providers, error) {
	return observability.Providers{
		Logger:   slog.New(slog.DiscardHandler),
		Shutdown: func(_ context.Context) error { return nil },
	}, nil
}

// writeFiles creates each relative path under a fresh temp dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

// emptyConfig returns a config file path that selects all defaults.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "importcheck.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	return path
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}
