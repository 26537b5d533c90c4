package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// textRenderer prints one line per miss as soon as it is found, so partial
// output survives an interrupted run.
type textRenderer struct {
	w       io.Writer
	summary bool

	file  *color.Color
	spec  *color.Color
	ok    *color.Color
	total *color.Color
}

func newTextRenderer(w io.Writer, opts Options) *textRenderer {
	r := &textRenderer{
		w:       w,
		summary: opts.Summary,
		file:    color.New(color.FgCyan),
		spec:    color.New(color.FgRed, color.Bold),
		ok:      color.New(color.FgGreen),
		total:   color.New(color.FgYellow),
	}

	for _, c := range []*color.Color{r.file, r.spec, r.ok, r.total} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return r
}

func (r *textRenderer) Missing(ref importmodel.Reference) error {
	_, err := fmt.Fprintf(r.w, msgMissing+"\n", r.file.Sprint(ref.File), r.spec.Sprint(ref.Specifier))
	if err != nil {
		return fmt.Errorf("write missing import: %w", err)
	}

	return nil
}

func (r *textRenderer) Finish(rep *checker.Report) error {
	var line string

	switch {
	case rep.OK():
		line = r.ok.Sprint(msgOK)
	case r.summary:
		line = r.total.Sprint(summaryLine(rep.MissingCount()))
	default:
		return nil
	}

	_, err := fmt.Fprintln(r.w, line)
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}
