package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadLines returns the lines of a report file. PDF files go through
// ExtractText; everything else is read as text.
func ReadLines(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err := ExtractText(path)
		if err != nil {
			return nil, err
		}
		var lines []string
		for _, page := range pages {
			lines = append(lines, SplitLines(page)...)
		}
		return lines, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits text into lines. "\r\n", "\r" and "\n" all end a
// line, a leading UTF-8 byte order mark is dropped, and a final line break
// does not add an empty line.
func SplitLines(text string) []string {
	text = strings.TrimPrefix(text, byteOrderMark)
	if text == "" {
		return nil
	}
	text = lineBreaks.Replace(text)
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

const byteOrderMark = "\ufeff"

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")
