package patch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/internal/patch"
)

func TestParseRules_Valid(t *testing.T) {
	t.Parallel()

	set, err := patch.ParseRules([]byte(dedent.Dedent(`
		files:
		  - path: components/views/UV_AdminAnalytics.tsx
		    rules:
		      - pattern: '^(\s*)const TransactionAnalytics.*?$'
		        replacement: '// \1TransactionAnalytics removed - unused'
		        flags: [multiline]
		      - remove_import: Link
	`)))
	require.NoError(t, err)
	require.Len(t, set.Files, 1)

	file := set.Files[0]
	assert.Equal(t, "components/views/UV_AdminAnalytics.tsx", file.Path)
	require.Len(t, file.Rules, 2)
	assert.Equal(t, []string{patch.FlagMultiline}, file.Rules[0].Flags)
	assert.Equal(t, "Link", file.Rules[1].RemoveImport)
}

func TestParseRules_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: ""},
		{name: "not yaml", doc: "files: [\n"},
		{name: "missing files", doc: "rules: []\n"},
		{name: "missing path", doc: "files:\n  - rules:\n      - pattern: a\n"},
		{name: "no rules", doc: "files:\n  - path: a.ts\n    rules: []\n"},
		{name: "unknown flag", doc: "files:\n  - path: a.ts\n    rules:\n      - pattern: a\n        flags: [global]\n"},
		{name: "both kinds", doc: "files:\n  - path: a.ts\n    rules:\n      - pattern: a\n        remove_import: B\n"},
		{name: "bad identifier", doc: "files:\n  - path: a.ts\n    rules:\n      - remove_import: 'a b'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := patch.ParseRules([]byte(tt.doc))
			require.ErrorIs(t, err, patch.ErrInvalidRules)
		})
	}
}

func TestLoadRules_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := patch.LoadRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadRules_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files:\n  - path: a.ts\n    rules:\n      - remove_import: X\n"), 0o600))

	set, err := patch.LoadRules(path)
	require.NoError(t, err)
	require.Len(t, set.Files, 1)
}
