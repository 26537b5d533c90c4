package checker

import (
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// relativePrefix marks specifiers resolved against the importing file's directory.
const relativePrefix = "."

// candidateSuffixes are appended to the base path in this order; the first
// existing candidate wins. The empty suffix covers specifiers that already
// carry an extension.
var candidateSuffixes = []string{
	".ts",
	".tsx",
	".js",
	".jsx",
	"/index.ts",
	"/index.tsx",
	"",
}

// indexFiles are probed inside a base path that turned out to be a directory.
var indexFiles = []string{"index.ts", "index.tsx"}

// Resolver decides whether alias and relative specifiers point at files on disk.
type Resolver struct {
	root        string
	aliasPrefix string
	stats       *statCache
}

// NewResolver creates a Resolver anchored at root that stats the filesystem
// directly, without caching.
func NewResolver(root, aliasPrefix string) *Resolver {
	stats, _ := newStatCache(0) // size 0 never fails.

	return &Resolver{root: root, aliasPrefix: aliasPrefix, stats: stats}
}

// Classify returns the form of specifier for the given alias prefix.
func Classify(specifier, aliasPrefix string) importmodel.Form {
	switch {
	case strings.HasPrefix(specifier, aliasPrefix):
		return importmodel.FormAlias
	case strings.HasPrefix(specifier, relativePrefix):
		return importmodel.FormRelative
	default:
		return importmodel.FormBare
	}
}

// Base returns the path a specifier is anchored at, or "" for bare imports.
// A trailing slash on the specifier is kept, so "./foo/" only matches the
// directory foo and never foo.ts.
func (r *Resolver) Base(specifier, owningFile string) string {
	var base string

	switch Classify(specifier, r.aliasPrefix) {
	case importmodel.FormAlias:
		base = filepath.Join(r.root, strings.TrimPrefix(specifier, r.aliasPrefix))
	case importmodel.FormRelative:
		base = filepath.Join(filepath.Dir(owningFile), specifier)
	default:
		return ""
	}

	if strings.HasSuffix(specifier, "/") && !strings.HasSuffix(base, string(filepath.Separator)) {
		base += string(filepath.Separator)
	}

	return base
}

// Resolve reports whether specifier, imported from owningFile, exists.
// Bare package imports are out of scope and always resolve.
func (r *Resolver) Resolve(specifier, owningFile string) bool {
	base := r.Base(specifier, owningFile)
	if base == "" {
		return true
	}

	for _, suffix := range candidateSuffixes {
		if r.stats.exists(base + filepath.FromSlash(suffix)) {
			return true
		}
	}

	// Directory fallback.
	if r.stats.isDir(base) {
		for _, name := range indexFiles {
			if r.stats.exists(filepath.Join(base, name)) {
				return true
			}
		}
	}

	return false
}
