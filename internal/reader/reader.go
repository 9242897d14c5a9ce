// Package reader loads the ';'-delimited output of the writer package back
// into a store. Frequencies keep their decimal comma; the writer's
// separator rewrite is not reversed.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// ErrFormat is returned for input that the writer could not have produced.
var ErrFormat = errors.New("malformed report file")

// ReadFile reads a serialized store from path.
func ReadFile(path string) (*models.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses a serialized store. A line after a blank line (or at the
// start) names a component; "label;frequency" and
// "label;secondary;frequency" lines are its records, collected into one
// value group.
func Read(r io.Reader) (*models.Store, error) {
	store := models.NewStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	current := -1
	width := 0 // field count of the current component's records
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		if line == "" {
			current = -1
			continue
		}
		if current < 0 {
			current = store.Open(line)
			width = 0
			continue
		}

		fields := strings.Split(line, ";")
		rec := models.Record{Label: fields[0]}
		switch len(fields) {
		case 2:
			rec.Frequency = fields[1]
		case 3:
			rec.Secondary = fields[1]
			rec.Frequency = fields[2]
			rec.HasSecondary = true
		default:
			return nil, fmt.Errorf("%w: line %d: expected 2 or 3 fields, got %d", ErrFormat, lineNum, len(fields))
		}
		if width != 0 && width != len(fields) {
			return nil, fmt.Errorf("%w: line %d: %d fields after %d-field records", ErrFormat, lineNum, len(fields), width)
		}
		width = len(fields)
		store.Component(current).AppendShared(rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return store, nil
}
