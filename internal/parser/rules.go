package parser

import (
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// Sentinels end the active section wherever they appear in a line.
var (
	simpleSentinels  = []string{"sum_values"}
	sectionSentinels = []string{"sum_values", "RTP_", "S_T_D_"}
)

const (
	frequencyMarker    = "frequency:"
	distributionMarker = "distribution:"

	frequencySuffix    = " Frequency"
	distributionSuffix = " Distribution"
)

// breakRule is one entry of the section-break table. Rules are evaluated
// top to bottom and the first match wins.
type breakRule struct {
	name  string
	match func(line string, keys []string, current *models.Component) bool
}

var sectionBreakRules = []breakRule{
	{
		name: "sentinel",
		match: func(line string, _ []string, _ *models.Component) bool {
			return containsAny(line, sectionSentinels)
		},
	},
	{
		name:  "foreign-subsection",
		match: foreignSubsection,
	},
}

// foreignSubsection reports whether the line is a frequency/distribution
// header of a key whose name space is not the current component's. Only the
// first key carrying such a header is considered. A header of the current
// key is not a break even when it switches sub-kind; opening the other
// sub-kind is left to start detection.
func foreignSubsection(line string, keys []string, current *models.Component) bool {
	if !isSubsectionHeader(line) {
		return false
	}
	for _, key := range keys {
		if strings.HasPrefix(line, key) {
			return current == nil || !strings.HasPrefix(current.Name, key)
		}
	}
	return false
}

// shouldStartNewSection returns the name of the first break rule matching
// the line.
func shouldStartNewSection(line string, keys []string, current *models.Component) (string, bool) {
	for _, r := range sectionBreakRules {
		if r.match(line, keys, current) {
			return r.name, true
		}
	}
	return "", false
}

func isSubsectionHeader(line string) bool {
	return strings.Contains(line, frequencyMarker) || strings.Contains(line, distributionMarker)
}

// sectionType returns the component name suffix for a key line.
func sectionType(line string) string {
	if strings.Contains(line, frequencyMarker) {
		return frequencySuffix
	}
	return distributionSuffix
}
