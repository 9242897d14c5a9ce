package extractor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeTextPDF writes a one-page PDF showing each line at its own height
// with a WinAnsi-encoded Helvetica font.
func writeTextPDF(t *testing.T, lines []string) string {
	t.Helper()

	var content strings.Builder
	content.WriteString("BT /F1 12 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm (%s) Tj\n", 720-20*i, line)
	}
	content.WriteString("ET")

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractWithLibrary_TextPDF(t *testing.T) {
	path := writeTextPDF(t, []string{"Foo", "a, 1, 0.5"})

	pages, err := extractWithLibrary(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(pages, []string{"Foo\na, 1, 0.5"}) {
		t.Errorf("got %q", pages)
	}
}

func TestReadLines_TextPDF(t *testing.T) {
	path := writeTextPDF(t, []string{"Bar distribution:", "x: value = 3.2 units"})

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"Bar distribution:", "x: value = 3.2 units"}) {
		t.Errorf("got %q", lines)
	}
}
