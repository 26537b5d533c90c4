// Package checker verifies that alias and relative import specifiers in
// TypeScript sources resolve to files on disk.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/importcheck/pkg/importmodel"
)

// Span names emitted by the checker.
const (
	tracerName   = "importcheck.checker"
	spanRun      = "importcheck.checker.run"
	spanFile     = "importcheck.checker.file"
	attrRoot     = "importcheck.root"
	attrPath     = "importcheck.file.path"
	attrImports  = "importcheck.file.imports"
	attrMissing  = "importcheck.missing"
	attrScanned  = "importcheck.files.scanned"
	defaultAlias = "@/"
)

// DefaultExtensions are the source suffixes scanned when Options.Extensions is empty.
var DefaultExtensions = []string{".ts", ".tsx"}

// Options configures a Checker. Zero values select the defaults.
type Options struct {
	Extensions    []string
	AliasPrefix   string
	MaxFileSize   int64
	SkipVendor    bool
	StatCacheSize int
	Logger        *slog.Logger
	Tracer        trace.Tracer
}

// MissingFunc is invoked for each unresolved specifier as soon as it is found.
type MissingFunc func(ref importmodel.Reference)

// Report is the outcome of one run over a project tree.
type Report struct {
	Root           string                    `json:"root" yaml:"root"`
	FilesScanned   int                       `json:"files_scanned" yaml:"files_scanned"`
	BytesScanned   int64                     `json:"bytes_scanned" yaml:"bytes_scanned"`
	ImportsChecked int                       `json:"imports_checked" yaml:"imports_checked"`
	BareImports    int                       `json:"bare_imports" yaml:"bare_imports"`
	Missing        []importmodel.Reference   `json:"missing" yaml:"missing"`
	Skipped        []importmodel.SkippedFile `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	CacheHits      int64                     `json:"-" yaml:"-"`
	CacheMisses    int64                     `json:"-" yaml:"-"`
	Duration       time.Duration             `json:"-" yaml:"-"`
}

// MissingCount is the number of specifiers that failed every candidate.
func (r *Report) MissingCount() int {
	return len(r.Missing)
}

// OK reports whether the run found no missing imports.
func (r *Report) OK() bool {
	return len(r.Missing) == 0
}

// Checker runs the walk → extract → resolve pipeline. A Checker holds no
// state between runs.
type Checker struct {
	opts   Options
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a Checker, filling unset options with defaults.
func New(opts Options) *Checker {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	if opts.AliasPrefix == "" {
		opts.AliasPrefix = defaultAlias
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}

	return &Checker{opts: opts, logger: logger, tracer: tracer}
}

// Run checks every source file under root. onMissing, when non-nil, is
// called for each miss in discovery order before Run returns. On context
// cancellation the partial report is returned with the context error.
func (c *Checker) Run(ctx context.Context, root string, onMissing MissingFunc) (*Report, error) {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, spanRun, trace.WithAttributes(attribute.String(attrRoot, root)))
	defer span.End()

	stats, err := newStatCache(c.opts.StatCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create stat cache: %w", err)
	}

	resolver := &Resolver{root: root, aliasPrefix: c.opts.AliasPrefix, stats: stats}
	w := &walker{
		extensions:  c.opts.Extensions,
		maxFileSize: c.opts.MaxFileSize,
		skipVendor:  c.opts.SkipVendor,
		logger:      c.logger,
	}

	report := &Report{Root: root, Missing: []importmodel.Reference{}}

	walkErr := w.walk(ctx, root, func(file importmodel.File) error {
		c.checkFile(ctx, resolver, file, report, onMissing)

		return nil
	})

	report.CacheHits = stats.hits.Load()
	report.CacheMisses = stats.misses.Load()
	report.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int(attrScanned, report.FilesScanned),
		attribute.Int(attrMissing, report.MissingCount()),
	)

	if walkErr != nil {
		span.RecordError(walkErr)
		span.SetStatus(codes.Error, walkErr.Error())

		return report, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	c.logger.DebugContext(ctx, "check complete",
		"root", root,
		"files", report.FilesScanned,
		"imports", report.ImportsChecked,
		"missing", report.MissingCount(),
		"duration", report.Duration,
	)

	return report, nil
}

func (c *Checker) checkFile(
	ctx context.Context, resolver *Resolver, file importmodel.File, report *Report, onMissing MissingFunc,
) {
	_, span := c.tracer.Start(ctx, spanFile, trace.WithAttributes(attribute.String(attrPath, file.Path)))
	defer span.End()

	if file.Skipped != "" {
		skipped := importmodel.SkippedFile{Path: file.Path, Reason: file.Skipped}
		if file.Error != nil {
			skipped.Detail = file.Error.Error()
		}

		report.Skipped = append(report.Skipped, skipped)

		return
	}

	report.FilesScanned++
	report.BytesScanned += file.Size

	span.SetAttributes(attribute.Int(attrImports, len(file.Imports)))

	for _, specifier := range file.Imports {
		form := Classify(specifier, c.opts.AliasPrefix)
		if form == importmodel.FormBare {
			report.BareImports++

			continue
		}

		report.ImportsChecked++

		if resolver.Resolve(specifier, file.Path) {
			continue
		}

		ref := importmodel.Reference{
			File:      file.Path,
			Specifier: specifier,
			Form:      form,
			Lang:      file.Lang,
		}

		report.Missing = append(report.Missing, ref)

		if onMissing != nil {
			onMissing(ref)
		}
	}
}
