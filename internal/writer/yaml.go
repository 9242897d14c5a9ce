package writer

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/stat-report-converter/internal/models"
)

// YAMLWriter dumps a store as YAML with frequencies left as parsed.
type YAMLWriter struct{}

// WriteToFile writes the store to a YAML file at the given path.
func (w *YAMLWriter) WriteToFile(path string, store *models.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, store); err != nil {
		return err
	}
	return f.Close()
}

// Write encodes the store to out.
func (w *YAMLWriter) Write(out io.Writer, store *models.Store) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(store); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
