package patch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Options configures an Applier.
type Options struct {
	// Root anchors relative rule paths. Empty means the working directory.
	Root string
	// DryRun computes changes and diffs without writing.
	DryRun bool
	Logger *slog.Logger
}

// Result is the outcome for one file.
type Result struct {
	Path    string
	Changed bool
	Diff    string
	Err     error
}

// ResultFunc receives each file result as soon as it is known.
type ResultFunc func(Result)

// Applier rewrites files according to a RuleSet.
type Applier struct {
	opts   Options
	logger *slog.Logger
}

// NewApplier creates an Applier.
func NewApplier(opts Options) *Applier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Applier{opts: opts, logger: logger}
}

// Apply processes every file in set in order. A failing file never stops the
// run; its error is carried in its Result. Apply returns early only when ctx
// is done.
func (a *Applier) Apply(ctx context.Context, set *RuleSet, onResult ResultFunc) ([]Result, error) {
	results := make([]Result, 0, len(set.Files))

	for _, file := range set.Files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, fmt.Errorf("apply rules: %w", ctxErr)
		}

		res := a.applyFile(ctx, file)
		results = append(results, res)

		if onResult != nil {
			onResult(res)
		}
	}

	return results, nil
}

func (a *Applier) resolve(path string) string {
	if filepath.IsAbs(path) || a.opts.Root == "" {
		return filepath.Clean(path)
	}

	return filepath.Join(a.opts.Root, filepath.FromSlash(path))
}

func (a *Applier) applyFile(ctx context.Context, file FileRules) Result {
	path := a.resolve(file.Path)
	res := Result{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		res.Err = err

		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = err

		return res
	}

	before := string(data)

	after, err := Rewrite(before, file.Rules)
	if err != nil {
		res.Err = err

		return res
	}

	res.Changed = after != before

	a.logger.DebugContext(ctx, "rules applied", "path", path, "rules", len(file.Rules), "changed", res.Changed)

	if a.opts.DryRun {
		if res.Changed {
			res.Diff = LineDiff(path, before, after)
		}

		return res
	}

	if !res.Changed {
		return res
	}

	err = os.WriteFile(path, []byte(after), info.Mode().Perm())
	if err != nil {
		res.Err = err
	}

	return res
}

// Rewrite applies rules in order to content. Every pattern rule replaces all
// of its matches.
func Rewrite(content string, rules []Rule) (string, error) {
	for i, rule := range rules {
		st, err := rule.compile()
		if err != nil {
			return "", fmt.Errorf("rule %d: %w", i+1, err)
		}

		content = st.re.ReplaceAllString(content, st.repl)
	}

	return content, nil
}

// LineDiff renders the changed lines between before and after, prefixed with
// '-' and '+', under a ---/+++ header for path.
func LineDiff(path, before, after string) string {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(src, dst, false), lines)

	var out strings.Builder

	fmt.Fprintf(&out, "--- %s\n+++ %s\n", path, path)

	for _, d := range diffs {
		var prefix string

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
			continue
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			out.WriteString(prefix)
			out.WriteString(line)

			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}

	return out.String()
}
