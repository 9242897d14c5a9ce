package parser

import (
	"log/slog"
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// transition is what a strategy decided about one line before extraction.
type transition struct {
	end       bool   // clear the active section first
	open      string // name of a component to open, "" for none
	seed      bool   // attach an empty value group to the opened component
	skip      bool   // do not try to extract a record from the line
	continued bool   // a key line that re-entered the active component
	rule      string
}

// strategy is the per-dialect half of the state machine.
type strategy interface {
	classify(line string, current *models.Component) transition
	extract(line string) (models.Record, bool)
	attach(c *models.Component, r models.Record)
}

// section is the parser state: no active section, or the index of the
// active component in the store.
type section struct {
	active bool
	index  int
}

type machine struct {
	strategy strategy
	store    *models.Store
	state    section
	opts     options
	debug    []models.DebugLine
}

func run(s strategy, dialect models.Dialect, lines []string, opts options) *models.Report {
	m := &machine{
		strategy: s,
		store:    models.NewStore(),
		opts:     opts,
	}
	for i, line := range lines {
		m.step(i+1, line)
	}
	m.opts.logger.Debug("parse finished",
		slog.String("dialect", string(dialect)),
		slog.Int("lines", len(lines)),
		slog.Int("components", m.store.Len()),
		slog.Int("records", m.store.Records()),
	)
	return &models.Report{
		Dialect:    dialect,
		Store:      m.store,
		DebugLines: m.debug,
	}
}

func (m *machine) current() *models.Component {
	if !m.state.active {
		return nil
	}
	return m.store.Component(m.state.index)
}

func (m *machine) step(num int, line string) {
	var actions []string
	t := m.strategy.classify(line, m.current())

	if t.end {
		if t.skip {
			actions = append(actions, "sentinel")
		} else {
			actions = append(actions, "break")
		}
		if m.state.active {
			m.opts.logger.Debug("section closed",
				slog.Int("line", num),
				slog.String("component", m.current().Name),
				slog.String("rule", t.rule),
			)
		}
		m.state = section{}
	}

	if t.open != "" {
		idx := m.store.Open(t.open)
		if t.seed {
			m.store.Component(idx).Groups = append(m.store.Component(idx).Groups, models.ValueGroup{})
		}
		m.state = section{active: true, index: idx}
		actions = append(actions, "opened")
		m.opts.logger.Debug("section opened",
			slog.Int("line", num),
			slog.String("component", t.open),
			slog.String("rule", t.rule),
		)
	} else if t.continued {
		actions = append(actions, "continued")
	}

	if !t.skip {
		if cur := m.current(); cur != nil {
			if r, ok := m.strategy.extract(line); ok {
				m.strategy.attach(cur, r)
				actions = append(actions, "record")
			} else if len(actions) == 0 {
				actions = append(actions, "skipped")
			}
		}
	}

	if !m.opts.trace {
		return
	}
	if len(actions) == 0 {
		actions = append(actions, "ignored")
	}
	dl := models.DebugLine{
		LineNum: num,
		Text:    line,
		Action:  strings.Join(actions, ","),
		Rule:    t.rule,
	}
	if cur := m.current(); cur != nil {
		dl.Component = cur.Name
	}
	m.debug = append(m.debug, dl)
}
