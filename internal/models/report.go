package models

// Dialect identifies one of the supported report line formats.
type Dialect string

const (
	// DialectSimple is the comma-separated "label, value, frequency" format.
	DialectSimple Dialect = "simple"
	// DialectSections is the "label: name = frequency" format with
	// frequency/distribution sub-sections.
	DialectSections Dialect = "sections"
)

// ValueGroup is one bundle of index-aligned records collected while a
// component was active. Secondary is empty for the sections dialect.
type ValueGroup struct {
	Labels      []string `json:"labels" yaml:"labels"`
	Secondary   []string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Frequencies []string `json:"frequencies" yaml:"frequencies"`
}

// Len returns the number of records in the group.
func (g ValueGroup) Len() int {
	return len(g.Labels)
}

// Record is a single extracted (label, secondary, frequency) tuple.
type Record struct {
	Label     string
	Secondary string
	Frequency string
	// HasSecondary reports whether the dialect produced a middle field.
	HasSecondary bool
}

// Component is one named statistic of the report.
type Component struct {
	Name   string       `json:"name" yaml:"name"`
	Groups []ValueGroup `json:"groups" yaml:"groups"`
}

// Records returns the number of records across all groups.
func (c *Component) Records() int {
	n := 0
	for _, g := range c.Groups {
		n += g.Len()
	}
	return n
}

// AppendShared adds r to the first value group, creating it if needed.
func (c *Component) AppendShared(r Record) {
	if len(c.Groups) == 0 {
		c.Groups = append(c.Groups, ValueGroup{})
	}
	g := &c.Groups[0]
	g.Labels = append(g.Labels, r.Label)
	if r.HasSecondary {
		g.Secondary = append(g.Secondary, r.Secondary)
	}
	g.Frequencies = append(g.Frequencies, r.Frequency)
}

// AppendGroup adds r as a new single-record value group.
func (c *Component) AppendGroup(r Record) {
	g := ValueGroup{
		Labels:      []string{r.Label},
		Frequencies: []string{r.Frequency},
	}
	if r.HasSecondary {
		g.Secondary = []string{r.Secondary}
	}
	c.Groups = append(c.Groups, g)
}

// Store is the ordered list of components produced by one parse.
// Components are only ever appended; their order is the output order.
type Store struct {
	Components []Component `json:"components" yaml:"components"`
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Open appends a component with the given name and returns its index.
func (s *Store) Open(name string) int {
	s.Components = append(s.Components, Component{Name: name})
	return len(s.Components) - 1
}

// Component returns the component at index i.
func (s *Store) Component(i int) *Component {
	return &s.Components[i]
}

// Len returns the number of components.
func (s *Store) Len() int {
	return len(s.Components)
}

// Records returns the number of records across all components.
func (s *Store) Records() int {
	n := 0
	for i := range s.Components {
		n += s.Components[i].Records()
	}
	return n
}

// Lookup returns the first component named name.
func (s *Store) Lookup(name string) (*Component, bool) {
	for i := range s.Components {
		if s.Components[i].Name == name {
			return &s.Components[i], true
		}
	}
	return nil, false
}

// Merge returns a new store holding the components of all stores in order.
// The inputs are not modified.
func Merge(stores ...*Store) *Store {
	out := NewStore()
	for _, s := range stores {
		if s == nil {
			continue
		}
		out.Components = append(out.Components, s.Components...)
	}
	return out
}

// DebugLine captures what the parser did with each input line.
type DebugLine struct {
	LineNum   int    `json:"lineNum"`
	Text      string `json:"text"`
	Action    string `json:"action"` // "sentinel", "break", "opened", "continued", "record", "skipped", "ignored"
	Component string `json:"component,omitempty"`
	Rule      string `json:"rule,omitempty"`
}

// Report is the result of parsing one input.
type Report struct {
	Source     string
	Dialect    Dialect
	Store      *Store
	DebugLines []DebugLine
}
