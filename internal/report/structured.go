package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/importcheck/internal/checker"
	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// yamlIndent matches the indentation of the JSON output.
const yamlIndent = 2

// document is the serialized form of a run.
type document struct {
	checker.Report `yaml:",inline"`

	MissingCount int  `json:"missing_count" yaml:"missing_count"`
	OK           bool `json:"ok"            yaml:"ok"`
}

func newDocument(rep *checker.Report) document {
	return document{Report: *rep, MissingCount: rep.MissingCount(), OK: rep.OK()}
}

type jsonRenderer struct {
	w io.Writer
}

func (r *jsonRenderer) Missing(importmodel.Reference) error { return nil }

func (r *jsonRenderer) Finish(rep *checker.Report) error {
	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(newDocument(rep))
	if err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}

	return nil
}

type yamlRenderer struct {
	w io.Writer
}

func (r *yamlRenderer) Missing(importmodel.Reference) error { return nil }

func (r *yamlRenderer) Finish(rep *checker.Report) error {
	encoder := yaml.NewEncoder(r.w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(newDocument(rep))
	if err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}

	closeErr := encoder.Close()
	if closeErr != nil {
		return fmt.Errorf("flush yaml report: %w", closeErr)
	}

	return nil
}
