// Package pipeline runs line source, parser and store merge for one or
// more report files. Every input is parsed into its own store; stores are
// combined only after all parses finished, in input order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/stat-report-converter/internal/extractor"
	"github.com/insightdelivered/stat-report-converter/internal/models"
	"github.com/insightdelivered/stat-report-converter/internal/parser"
)

// Converter parses reports with a fixed key vocabulary.
type Converter struct {
	// Dialect forces a dialect; empty means auto-detect per input.
	Dialect models.Dialect
	Keys    []string
	Trace   bool
	Logger  *slog.Logger
	// Concurrency bounds parallel file parses; <= 0 means GOMAXPROCS.
	Concurrency int
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// ConvertLines parses in-memory lines. When no dialect is forced and none
// can be detected, the simple dialect is used; with no matching keys that
// yields an empty store rather than an error.
func (c *Converter) ConvertLines(source string, lines []string) (*models.Report, error) {
	log := c.logger().With(slog.String("source", source))

	dialect := c.Dialect
	if dialect == "" {
		detected, err := parser.AutoDetect(lines, c.Keys)
		switch {
		case errors.Is(err, parser.ErrNoDialect):
			log.Warn("no section key found, falling back to simple dialect", slog.Int("keys", len(c.Keys)))
			detected = models.DialectSimple
		case err != nil:
			return nil, err
		}
		dialect = detected
	}

	opts := []parser.Option{parser.WithLogger(log)}
	if c.Trace {
		opts = append(opts, parser.WithTrace())
	}
	p, err := parser.New(dialect, c.Keys, opts...)
	if err != nil {
		return nil, err
	}

	report := p.Parse(lines)
	report.Source = source
	log.Info("report parsed",
		slog.String("dialect", string(report.Dialect)),
		slog.Int("lines", len(lines)),
		slog.Int("components", report.Store.Len()),
		slog.Int("records", report.Store.Records()),
	)
	return report, nil
}

// ConvertFiles reads and parses each path in parallel. Results are in the
// order of paths. The first failure cancels the remaining reads.
func (c *Converter) ConvertFiles(ctx context.Context, paths []string) ([]*models.Report, error) {
	reports := make([]*models.Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := extractor.ReadLines(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report, err := c.ConvertLines(path, lines)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Converter) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Merge concatenates the stores of reports in order. The merged report
// keeps the dialect only when every input shares it.
func Merge(reports []*models.Report) *models.Report {
	stores := make([]*models.Store, 0, len(reports))
	var dialect models.Dialect
	for i, r := range reports {
		stores = append(stores, r.Store)
		switch {
		case i == 0:
			dialect = r.Dialect
		case r.Dialect != dialect:
			dialect = ""
		}
	}
	return &models.Report{
		Source:  "merged",
		Dialect: dialect,
		Store:   models.Merge(stores...),
	}
}
