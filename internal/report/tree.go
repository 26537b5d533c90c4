package report

import (
	"fmt"
	"io"

	"github.com/ddddddO/gtree"
	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// treeRenderer groups misses under their owning file below the project root.
type treeRenderer struct {
	w    io.Writer
	opts Options
}

func (r *treeRenderer) Missing(importmodel.Reference) error { return nil }

func (r *treeRenderer) Finish(rep *checker.Report) error {
	if rep.OK() {
		return writeLine(r.w, msgOK)
	}

	spec := color.New(color.FgRed)
	if r.opts.Color {
		spec.EnableColor()
	} else {
		spec.DisableColor()
	}

	root := gtree.NewRoot(rep.Root)
	files := make(map[string]*gtree.Node)

	// Missing is in discovery order, so files appear in walk order.
	for _, ref := range rep.Missing {
		node, ok := files[ref.File]
		if !ok {
			node = root.Add(relativeTo(rep.Root, ref.File))
			files[ref.File] = node
		}

		node.Add(spec.Sprint(ref.Specifier))
	}

	err := gtree.OutputFromRoot(r.w, root)
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}

	if r.opts.Summary {
		return writeLine(r.w, summaryLine(rep.MissingCount()))
	}

	return nil
}
