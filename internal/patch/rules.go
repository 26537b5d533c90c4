// Package patch applies ordered regular-expression rewrites to named source
// files, as described by a YAML rules file.
package patch

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Rule flags.
const (
	FlagMultiline  = "multiline"
	FlagIgnoreCase = "ignorecase"
	FlagDotAll     = "dotall"
)

//go:embed rules.schema.json
var rulesSchema []byte

// Sentinel errors.
var (
	ErrInvalidRules   = errors.New("invalid patch rules")
	ErrInvalidPattern = errors.New("invalid rule pattern")
)

// Rule is one rewrite step. Exactly one of Pattern or RemoveImport is set.
//
// Pattern uses RE2 syntax. Without the multiline flag, $ matches only at the
// very end of the content, not before a final newline; add multiline or match
// the newline explicitly to anchor at a line end.
type Rule struct {
	Pattern      string   `yaml:"pattern,omitempty"`
	Replacement  string   `yaml:"replacement,omitempty"`
	Flags        []string `yaml:"flags,omitempty"`
	RemoveImport string   `yaml:"remove_import,omitempty"`
}

// FileRules lists the rules for a single file, applied in order.
type FileRules struct {
	Path  string `yaml:"path"`
	Rules []Rule `yaml:"rules"`
}

// RuleSet is a parsed rules file.
type RuleSet struct {
	Files []FileRules `yaml:"files"`
}

// LoadRules reads and validates the rules file at path.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	return ParseRules(data)
}

// ParseRules decodes a YAML rules document and validates it against the
// embedded schema.
func ParseRules(data []byte) (*RuleSet, error) {
	var raw any

	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidRules, err)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidRules)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(rulesSchema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			msgs = append(msgs, resultErr.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidRules, strings.Join(msgs, "; "))
	}

	var set RuleSet

	err = yaml.Unmarshal(data, &set)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	return &set, nil
}

// step is a compiled rule.
type step struct {
	re   *regexp.Regexp
	repl string
}

func (r Rule) compile() (step, error) {
	if r.RemoveImport != "" {
		re, err := regexp.Compile(`,\s*` + regexp.QuoteMeta(r.RemoveImport) + `\b`)
		if err != nil {
			return step{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		}

		return step{re: re}, nil
	}

	var prefix strings.Builder

	for _, flag := range r.Flags {
		switch flag {
		case FlagMultiline:
			prefix.WriteString("m")
		case FlagIgnoreCase:
			prefix.WriteString("i")
		case FlagDotAll:
			prefix.WriteString("s")
		default:
			return step{}, fmt.Errorf("%w: unknown flag %q", ErrInvalidPattern, flag)
		}
	}

	pattern := r.Pattern
	if prefix.Len() > 0 {
		pattern = "(?" + prefix.String() + ")" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return step{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	return step{re: re, repl: translateReplacement(r.Replacement)}, nil
}

// translateReplacement rewrites backslash group references (\1, \g<1>,
// \g<name>) into regexp.Expand syntax and escapes literal dollars. \0 and
// \0NN are octal escapes (\0 is NUL), not the whole match; use \g<0> for that.
func translateReplacement(s string) string {
	var out strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '$':
			out.WriteString("$$")
		case c == '\\' && i+1 < len(s):
			next := s[i+1]

			switch {
			case next == '0':
				j, code := i+2, 0
				for j < len(s) && j < i+4 && s[j] >= '0' && s[j] <= '7' {
					code = code*8 + int(s[j]-'0')
					j++
				}

				out.WriteByte(byte(code))
				i = j - 1
			case next >= '1' && next <= '9':
				j := i + 1
				for j < len(s) && s[j] >= '0' && s[j] <= '9' {
					j++
				}

				out.WriteString("${" + s[i+1:j] + "}")
				i = j - 1
			case next == 'g' && i+2 < len(s) && s[i+2] == '<':
				end := strings.IndexByte(s[i+3:], '>')
				if end < 0 {
					out.WriteByte(c)

					continue
				}

				out.WriteString("${" + s[i+3:i+3+end] + "}")
				i += 3 + end
			case next == 'n':
				out.WriteByte('\n')
				i++
			case next == 't':
				out.WriteByte('\t')
				i++
			case next == '\\':
				out.WriteByte('\\')
				i++
			default:
				out.WriteByte(c)
			}
		default:
			out.WriteByte(c)
		}
	}

	return out.String()
}
