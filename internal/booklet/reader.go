package booklet

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// hyphenBreakRE matches a word split across a line break with a hyphen.
var hyphenBreakRE = regexp.MustCompile(`(\w+)-\s*\n\s*(\w+)`)

// Reader loads booklet PDFs and reconstructs their table rows or plain text
type Reader struct {
	maxFileSize int64
	validator   *Validator
}

// NewReader creates a reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// ReadTableRows reconstructs the table rows of every page, in page order.
// Pages that cannot be parsed are skipped and reported as warnings so one
// damaged page does not lose the rest of the booklet.
func (r *Reader) ReadTableRows(path string) (rows [][]string, pages int, warnings []string, err error) {
	if err := r.validator.validatePDFFile(path); err != nil {
		return nil, 0, nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages = pdfReader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageRows, pageErr := pageTableRows(page)
		if pageErr != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", pageNum, pageErr))
			continue
		}
		rows = append(rows, pageRows...)
	}

	return rows, pages, warnings, nil
}

// ReadPlainText returns the booklet text with one line per reconstructed
// row and a blank line between pages. Words hyphenated across line breaks
// are rejoined.
func (r *Reader) ReadPlainText(path string) (string, int, error) {
	if err := r.validator.validatePDFFile(path); err != nil {
		return "", 0, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	pages := pdfReader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		pageRows, pageErr := pageTableRows(page)
		if pageErr != nil {
			continue
		}
		for _, cells := range pageRows {
			sb.WriteString(strings.Join(cells, " "))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	text := hyphenBreakRE.ReplaceAllString(sb.String(), "$1$2")
	return strings.TrimSpace(text), pages, nil
}
