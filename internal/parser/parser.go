package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

var (
	// ErrUnknownDialect is returned for a dialect name that has no parser.
	ErrUnknownDialect = errors.New("unknown dialect")
	// ErrNoDialect is returned when AutoDetect finds no key in the input.
	ErrNoDialect = errors.New("could not detect report dialect")
)

// Parser defines the interface for report parsers.
type Parser interface {
	// Parse classifies the lines and returns the components found in them.
	// It never fails: lines that do not fit the dialect are skipped.
	Parse(lines []string) *models.Report
	// Dialect returns the line format this parser understands.
	Dialect() models.Dialect
}

// Option configures a parser.
type Option func(*options)

type options struct {
	trace  bool
	logger *slog.Logger
}

// WithTrace records a models.DebugLine for every input line.
func WithTrace() Option {
	return func(o *options) { o.trace = true }
}

// WithLogger logs section transitions at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns the parser for the given dialect. Empty keys are dropped;
// an empty key would match every line.
func New(dialect models.Dialect, keys []string, opts ...Option) (Parser, error) {
	switch dialect {
	case models.DialectSimple:
		return NewSimple(keys, opts...), nil
	case models.DialectSections:
		return NewSections(keys, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
}

// ParseDialect maps a user supplied dialect name to a Dialect. "" and
// "auto" return the empty dialect, meaning AutoDetect should be used.
func ParseDialect(s string) (models.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", nil
	case "simple", "csv":
		return models.DialectSimple, nil
	case "sections", "twins":
		return models.DialectSections, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: auto, simple, sections)", ErrUnknownDialect, s)
	}
}

// AutoDetect tries to identify the dialect from the report content.
// A line starting with a key and carrying a frequency/distribution header
// means the sections dialect; otherwise any line containing a key means the
// simple dialect.
func AutoDetect(lines []string, keys []string) (models.Dialect, error) {
	keys = cleanKeys(keys)
	for _, line := range lines {
		if _, ok := firstPrefix(line, keys); ok && isSubsectionHeader(line) {
			return models.DialectSections, nil
		}
	}
	for _, line := range lines {
		if _, ok := firstContained(line, keys); ok {
			return models.DialectSimple, nil
		}
	}
	return "", ErrNoDialect
}

func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
