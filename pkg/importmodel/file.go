// Package importmodel defines the data model for source file import analysis.
package importmodel

// Form classifies an import specifier by how it is anchored on disk.
type Form string

const (
	// FormAlias is a specifier starting with the alias prefix, resolved from the project root.
	FormAlias Form = "alias"
	// FormRelative is a specifier starting with '.', resolved from the importing file's directory.
	FormRelative Form = "relative"
	// FormBare is a package import; it is never checked.
	FormBare Form = "bare"
)

// SkipReason explains why a discovered source file contributed no imports.
type SkipReason string

const (
	// SkipDecode means the content is not valid UTF-8.
	SkipDecode SkipReason = "decode"
	// SkipRead means the file could not be opened or read.
	SkipRead SkipReason = "read"
	// SkipTooLarge means the file exceeds the configured size limit.
	SkipTooLarge SkipReason = "too_large"
)

// File represents a source file with its detected imports, language, and any skip reason.
type File struct {
	Path    string
	Lang    string
	Imports []string
	Size    int64
	Skipped SkipReason
	Error   error
}

// Reference is a single import specifier owned by one source file.
type Reference struct {
	File      string `json:"file" yaml:"file"`
	Specifier string `json:"specifier" yaml:"specifier"`
	Form      Form   `json:"form" yaml:"form"`
	Lang      string `json:"language,omitempty" yaml:"language,omitempty"`
}

// SkippedFile records a source file that was left out of the run.
type SkippedFile struct {
	Path   string     `json:"path" yaml:"path"`
	Reason SkipReason `json:"reason" yaml:"reason"`
	Detail string     `json:"detail,omitempty" yaml:"detail,omitempty"`
}
