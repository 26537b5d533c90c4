package checker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// ErrInvalidRoot is returned when the project root cannot be walked.
var ErrInvalidRoot = errors.New("invalid project root")

// visitFunc receives each discovered source file in walk order.
type visitFunc func(file importmodel.File) error

// walker enumerates source files below a root directory.
type walker struct {
	extensions  []string
	maxFileSize int64
	skipVendor  bool
	logger      *slog.Logger
}

func (w *walker) isSource(name string) bool {
	for _, ext := range w.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}

// walk visits every source file under root in lexical order. Unreadable
// entries below the root are logged and skipped.
func (w *walker) walk(ctx context.Context, root string, visit visitFunc) error {
	rootInfo, statErr := os.Stat(root)
	if statErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRoot, statErr)
	}

	if !rootInfo.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if walkErr != nil {
			w.logger.WarnContext(ctx, "skipping unreadable path", "path", path, "error", walkErr)

			return nil
		}

		if entry.IsDir() {
			if path != root && w.skipVendor && w.isVendor(root, path) {
				w.logger.DebugContext(ctx, "skipping vendored directory", "path", path)

				return filepath.SkipDir
			}

			return nil
		}

		if !w.isSource(entry.Name()) {
			return nil
		}

		return visit(w.load(ctx, underRoot(root, path)))
	})
}

// underRoot rebuilds a walked path as root + separator + relative path.
// WalkDir cleans the paths it yields, which drops a leading "./" from a
// root of "."; reported paths keep the root exactly as given.
func underRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return path
	}

	if strings.HasSuffix(root, string(filepath.Separator)) {
		return root + rel
	}

	return root + string(filepath.Separator) + rel
}

func (w *walker) isVendor(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return enry.IsVendor(filepath.ToSlash(rel) + "/")
}

// load reads one source file. Read failures and invalid UTF-8 are reported
// through File.Skipped, never as errors.
func (w *walker) load(ctx context.Context, path string) importmodel.File {
	file := importmodel.File{
		Path: path,
		Lang: enry.GetLanguage(filepath.Base(path), nil),
	}

	if w.maxFileSize > 0 {
		info, err := os.Stat(path)
		if err == nil && info.Size() > w.maxFileSize {
			w.logger.InfoContext(ctx, "skipping large file",
				"path", path,
				"size", humanize.Bytes(uint64(info.Size())), //nolint:gosec // size is non-negative.
				"limit", humanize.Bytes(uint64(w.maxFileSize)), //nolint:gosec // limit is positive.
			)

			file.Size = info.Size()
			file.Skipped = importmodel.SkipTooLarge

			return file
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.WarnContext(ctx, "skipping unreadable file", "path", path, "error", err)

		file.Skipped = importmodel.SkipRead
		file.Error = err

		return file
	}

	file.Size = int64(len(content))

	if !utf8.Valid(content) {
		file.Skipped = importmodel.SkipDecode

		return file
	}

	file.Imports = ExtractImports(string(content))

	return file
}
