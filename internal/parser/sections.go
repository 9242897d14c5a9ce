package parser

import (
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// SectionParser handles reports where each key has frequency and
// distribution sub-sections with "label: name = value" records:
//
//	Bar distribution:
//	x: value = 3.2 units
//	Bar frequency:
//	x: hits = 12
//	RTP_total: 96.5
//
// Each key produces "<key> Distribution" and "<key> Frequency" components,
// and every record becomes its own value group.
type SectionParser struct {
	keys []string
	opts options
}

// NewSections returns a parser for the sections dialect.
func NewSections(keys []string, opts ...Option) *SectionParser {
	return &SectionParser{keys: cleanKeys(keys), opts: buildOptions(opts)}
}

func (p *SectionParser) Dialect() models.Dialect {
	return models.DialectSections
}

func (p *SectionParser) Parse(lines []string) *models.Report {
	return run(sectionStrategy{keys: p.keys}, models.DialectSections, lines, p.opts)
}

type sectionStrategy struct {
	keys []string
}

// classify runs break detection and start detection as two separate
// stages; start detection sees the state left by break detection.
func (s sectionStrategy) classify(line string, current *models.Component) transition {
	var t transition
	if rule, ok := shouldStartNewSection(line, s.keys, current); ok {
		t.end = true
		t.rule = rule
		current = nil
	}

	key, ok := firstPrefix(line, s.keys)
	if !ok {
		return t
	}
	name := key + sectionType(line)
	if current == nil || current.Name != name {
		t.open = name
		if t.rule == "" {
			t.rule = "key"
		}
	} else {
		t.continued = true
	}
	return t
}

func (sectionStrategy) extract(line string) (models.Record, bool) {
	label, rest, ok := strings.Cut(line, ":")
	if !ok {
		return models.Record{}, false
	}
	_, value, ok := strings.Cut(rest, "=")
	if !ok {
		return models.Record{}, false
	}
	return models.Record{
		Label:     strings.TrimSpace(label),
		Frequency: firstToken(value),
	}, true
}

func (sectionStrategy) attach(c *models.Component, r models.Record) {
	c.AppendGroup(r)
}
