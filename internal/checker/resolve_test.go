package checker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		specifier string
		want      importmodel.Form
	}{
		{"@/lib/util", importmodel.FormAlias},
		{"./b", importmodel.FormRelative},
		{"../shared/widget", importmodel.FormRelative},
		{".", importmodel.FormRelative},
		{"react", importmodel.FormBare},
		{"@scope/pkg", importmodel.FormBare},
		{"/abs/path", importmodel.FormBare},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, checker.Classify(tt.specifier, "@/"), tt.specifier)
	}
}

func TestResolve_CandidateSuffixes(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/a.ts":               "",
		"src/ts.ts":              "",
		"src/tsx.tsx":            "",
		"src/js.js":              "",
		"src/jsx.jsx":            "",
		"src/idx/index.ts":       "",
		"src/idxx/index.tsx":     "",
		"src/styles.css":         "",
		"src/both.ts":            "",
		"src/both.tsx":           "",
		"src/nested/deep/x.ts":   "",
		"src/emptydir/README.md": "",
	})

	resolver := checker.NewResolver(root, "@/")
	owner := filepath.Join(root, "src", "a.ts")

	for _, spec := range []string{
		"./ts", "./tsx", "./js", "./jsx", "./idx", "./idxx", "./styles.css", "./both", "./nested/deep/x",
	} {
		assert.True(t, resolver.Resolve(spec, owner), spec)
	}

	// A directory with no index resolves through the bare-path candidate.
	assert.True(t, resolver.Resolve("./emptydir", owner))

	assert.False(t, resolver.Resolve("./nope", owner))
	assert.False(t, resolver.Resolve("./nested/x", owner))
}

func TestResolve_AliasAnchoredAtRoot(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"lib/util.ts":     "",
		"src/lib/only.ts": "",
	})

	resolver := checker.NewResolver(root, "@/")
	owner := filepath.Join(root, "src", "a.ts")

	assert.True(t, resolver.Resolve("@/lib/util", owner))
	// Present next to the importing file, but not under the root.
	assert.False(t, resolver.Resolve("@/lib/only", owner))
}

func TestResolve_RelativeAnchoredAtFileDir(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"b.ts":             "",
		"src/components/c": "",
	})

	resolver := checker.NewResolver(root, "@/")
	owner := filepath.Join(root, "src", "a.ts")

	// b.ts exists at the root, not next to src/a.ts.
	assert.False(t, resolver.Resolve("./b", owner))
	assert.True(t, resolver.Resolve("./components/c", owner))
}

func TestResolve_BareAlwaysResolves(t *testing.T) {
	t.Parallel()

	resolver := checker.NewResolver(t.TempDir(), "@/")

	assert.True(t, resolver.Resolve("react", "/nowhere/a.ts"))
	assert.True(t, resolver.Resolve("lodash/debounce", "/nowhere/a.ts"))
	assert.Empty(t, resolver.Base("react", "/nowhere/a.ts"))
}

func TestResolve_CustomAliasPrefix(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"lib/util.ts": ""})
	resolver := checker.NewResolver(root, "~/")

	assert.True(t, resolver.Resolve("~/lib/util", filepath.Join(root, "a.ts")))
	assert.True(t, resolver.Resolve("@/lib/missing", filepath.Join(root, "a.ts")), "bare under a custom alias")
}

func TestResolve_DirectoryFallbackUsesIndex(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"shared/widget/index.tsx": ""})
	resolver := checker.NewResolver(root, "@/")

	base := resolver.Base("../shared/widget", filepath.Join(root, "src", "components", "a.tsx"))
	assert.Equal(t, filepath.Join(root, "src", "shared", "widget"), base)

	info, err := os.Stat(filepath.Join(root, "shared", "widget"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.True(t, resolver.Resolve("@/shared/widget", filepath.Join(root, "a.ts")))
}

func TestResolve_TrailingSlashRequiresDirectory(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/foo.ts":         "",
		"src/lib.ts":         "",
		"src/dir/index.ts":   "",
		"src/bare/README.md": "",
		"shared/index.tsx":   "",
		"shared/util.ts":     "",
	})

	resolver := checker.NewResolver(root, "@/")
	owner := filepath.Join(root, "src", "a.ts")

	assert.True(t, resolver.Resolve("./foo", owner))
	assert.False(t, resolver.Resolve("./foo/", owner), "foo.ts must not satisfy ./foo/")
	assert.False(t, resolver.Resolve("@/src/lib/", owner))
	assert.True(t, resolver.Resolve("./dir/", owner))
	assert.True(t, resolver.Resolve("./bare/", owner))
	assert.True(t, resolver.Resolve("@/shared/", owner))

	assert.Equal(t, filepath.Join(root, "src", "foo")+string(filepath.Separator), resolver.Base("./foo/", owner))
}
