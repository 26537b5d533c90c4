// Package report renders import check results in the supported output formats.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// Output format names.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
	FormatTree  = "tree"
)

// Fixed message lines.
const (
	msgMissing = "Missing import in %s: %s"
	msgOK      = "No missing imports found."
)

// ErrUnknownFormat is returned for a format name with no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// Options controls rendering.
type Options struct {
	// Color enables ANSI colors in text, table and tree output.
	Color bool
	// Summary appends a missing-count line when imports are missing.
	Summary bool
}

// Renderer receives misses while the walk runs and the full report at the end.
type Renderer interface {
	// Missing is called once per unresolved specifier, in discovery order.
	Missing(ref importmodel.Reference) error
	// Finish writes whatever remains once the run is complete.
	Finish(rep *checker.Report) error
}

// New returns the renderer for format writing to w.
func New(format string, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case FormatText, "":
		return newTextRenderer(w, opts), nil
	case FormatJSON:
		return &jsonRenderer{w: w}, nil
	case FormatYAML:
		return &yamlRenderer{w: w}, nil
	case FormatTable:
		return &tableRenderer{w: w, opts: opts}, nil
	case FormatTree:
		return &treeRenderer{w: w, opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func summaryLine(n int) string {
	return fmt.Sprintf("%d missing import(s) found.", n)
}
