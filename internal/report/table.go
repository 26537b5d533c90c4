package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

type tableRenderer struct {
	w    io.Writer
	opts Options
}

func (r *tableRenderer) Missing(importmodel.Reference) error { return nil }

func (r *tableRenderer) Finish(rep *checker.Report) error {
	if rep.OK() {
		return writeLine(r.w, msgOK)
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	if r.opts.Color {
		tbl.Style().Color.Header = text.Colors{text.Bold}
		tbl.Style().Color.Footer = text.Colors{text.FgYellow}
	}

	tbl.AppendHeader(table.Row{"File", "Specifier", "Form"})

	for _, ref := range rep.Missing {
		tbl.AppendRow(table.Row{relativeTo(rep.Root, ref.File), ref.Specifier, string(ref.Form)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d items", rep.MissingCount())})

	err := writeLine(r.w, tbl.Render())
	if err != nil {
		return err
	}

	if r.opts.Summary {
		return writeLine(r.w, summaryLine(rep.MissingCount()))
	}

	return nil
}

// relativeTo shortens path against root for display, keeping it as is when
// it lies elsewhere.
func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}

	return filepath.ToSlash(rel)
}

func writeLine(w io.Writer, line string) error {
	_, err := fmt.Fprintln(w, line)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
