package extractor

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ErrExtract is returned when no readable text could be taken from a PDF.
var ErrExtract = errors.New("PDF text extraction failed")

// ExtractText reads a PDF report and returns the text of each page.
// The ledongthuc/pdf library is tried first; if it fails or yields
// unreadable text, the external pdftotext command (poppler-utils) is used.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, libErr)
	}
	return nil, fmt.Errorf("%w: no readable text in %s; export the report as plain text instead", ErrExtract, filePath)
}

// textQuality returns the ratio of printable characters to all characters.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if r == unicode.ReplacementChar {
				continue
			}
			if unicode.IsPrint(r) || unicode.IsSpace(r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires some text and more than 60% printable characters.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) == 0 {
		return false
	}
	return textQuality(pages) > 0.6
}

// extractWithPdftotext uses the external pdftotext command page by page.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %w", err)
	}

	numPages := 1
	if out, err := exec.Command("pdfinfo", filePath).Output(); err == nil {
		for _, line := range strings.Split(string(out), "\n") {
			if strings.HasPrefix(line, "Pages:") {
				n, parseErr := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
				if parseErr == nil && n > 0 {
					numPages = n
				}
			}
		}
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", page, "-l", page, filePath, "-").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdftotext produced no output for %s", filePath)
	}
	return pages, nil
}

// extractWithLibrary uses ledongthuc/pdf, row extraction first, then
// coordinate-based reconstruction, then the reader's plain text of the
// whole document as a single page.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	plain := extractByReaderPlainText(r)
	if isReadableText([]string{plain}) {
		return []string{plain}, nil
	}
	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				words = append(words, word.S)
			}
			if line := strings.TrimSpace(strings.Join(words, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text pieces into rows by rounded Y coordinate
// (top to bottom) and orders each row by X.
func extractByContent(r *pdf.Reader, numPages int) []string {
	type piece struct {
		x float64
		s string
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		rows := make(map[int][]piece)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			y := int(math.Round(t.Y))
			rows[y] = append(rows[y], piece{x: t.X, s: t.S})
		}
		if len(rows) == 0 {
			continue
		}

		ys := make([]int, 0, len(rows))
		for y := range rows {
			ys = append(ys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ys)))

		lines := make([]string, 0, len(ys))
		for _, y := range ys {
			row := rows[y]
			sort.Slice(row, func(a, b int) bool { return row[a].x < row[b].x })
			var sb strings.Builder
			for _, p := range row {
				sb.WriteString(p.s)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}
