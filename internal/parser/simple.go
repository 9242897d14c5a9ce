package parser

import (
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// SimpleParser handles reports made of comma-separated records.
//
// A section starts on any line containing one of the keys and ends on a
// line containing "sum_values":
//
//	Foo stats
//	a, 1, 0.5
//	b, 2, 0.75
//	sum_values, 3, 1.25
//
// Every record of a section lands in the component's first value group.
type SimpleParser struct {
	keys []string
	opts options
}

// NewSimple returns a parser for the simple dialect.
func NewSimple(keys []string, opts ...Option) *SimpleParser {
	return &SimpleParser{keys: cleanKeys(keys), opts: buildOptions(opts)}
}

func (p *SimpleParser) Dialect() models.Dialect {
	return models.DialectSimple
}

func (p *SimpleParser) Parse(lines []string) *models.Report {
	return run(simpleStrategy{keys: p.keys}, models.DialectSimple, lines, p.opts)
}

type simpleStrategy struct {
	keys []string
}

func (s simpleStrategy) classify(line string, _ *models.Component) transition {
	if containsAny(line, simpleSentinels) {
		return transition{end: true, skip: true, rule: "sentinel"}
	}
	// A key line always opens a fresh component, and is still tried as a
	// data line below.
	if key, ok := firstContained(line, s.keys); ok {
		return transition{open: key, seed: true, rule: "key"}
	}
	return transition{}
}

func (simpleStrategy) extract(line string) (models.Record, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return models.Record{}, false
	}
	return models.Record{
		Label:        strings.TrimSpace(parts[0]),
		Secondary:    strings.TrimSpace(parts[1]),
		Frequency:    strings.TrimSpace(parts[2]),
		HasSecondary: true,
	}, true
}

func (simpleStrategy) attach(c *models.Component, r models.Record) {
	c.AppendShared(r)
}
