package booklet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Row grouping and cell splitting thresholds. Word gaps inside a cell sit
// well under one font size; column gutters in booklet tables span several.
const (
	rowYTolerance = 2.0
	cellGapFactor = 2.0
	minCellGap    = 12.0
	wordGapFactor = 0.2
	minWordGap    = 1.0

	// Fallback glyph width when the parser reports no run width
	avgGlyphWidth = 0.55
)

// textRow is one horizontal band of positioned text on a page
type textRow struct {
	y     float64
	texts []pdf.Text
}

// pageTableRows reconstructs a page's table rows as cell strings. Malformed
// content streams make the underlying parser panic, so the page read is
// recovered into an error.
func pageTableRows(page pdf.Page) (rows [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows = nil
			err = fmt.Errorf("page parsing panicked: %v", r)
		}
	}()

	if byRow, rowErr := page.GetTextByRow(); rowErr == nil && len(byRow) > 0 {
		sort.Slice(byRow, func(i, j int) bool {
			return byRow[i].Position > byRow[j].Position
		})
		for _, row := range byRow {
			texts := make([]pdf.Text, 0, len(row.Content))
			for _, t := range row.Content {
				if strings.TrimSpace(t.S) == "" {
					continue
				}
				texts = append(texts, t)
			}
			if cells := splitTextsIntoCells(texts); len(cells) > 0 {
				rows = append(rows, cells)
			}
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}

	// Fallback: cluster raw positioned text into rows by Y coordinate
	content := page.Content()
	for _, row := range groupTextsIntoRows(content.Text) {
		if cells := splitTextsIntoCells(row.texts); len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows, nil
}

// groupTextsIntoRows clusters positioned texts into rows by Y proximity,
// ordered top to bottom, with each row's texts ordered left to right
func groupTextsIntoRows(texts []pdf.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) <= rowYTolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	// PDF origin is bottom-left: larger Y means nearer the top of the page
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].y > rows[j].y
	})
	for i := range rows {
		row := rows[i]
		sort.Slice(row.texts, func(a, b int) bool {
			return row.texts[a].X < row.texts[b].X
		})
	}
	return rows
}

// splitTextsIntoCells joins a row's text runs into cell strings, starting a
// new cell at column-sized X gaps and inserting spaces at word-sized ones
func splitTextsIntoCells(texts []pdf.Text) []string {
	if len(texts) == 0 {
		return nil
	}
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var cells []string
	var cell strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cell.String()); s != "" {
			cells = append(cells, s)
		}
		cell.Reset()
	}

	for i, t := range sorted {
		if i > 0 {
			prev := sorted[i-1]
			gap := t.X - (prev.X + runWidth(prev))
			switch {
			case gap > cellGap(prev.FontSize):
				flush()
			case gap > wordGap(prev.FontSize):
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(t.S)
	}
	flush()
	return cells
}

// runWidth returns the width of a text run, estimating from the glyph count
// when the parser reports none
func runWidth(t pdf.Text) float64 {
	if t.W > 0 {
		return t.W
	}
	return float64(len([]rune(t.S))) * t.FontSize * avgGlyphWidth
}

func cellGap(fontSize float64) float64 {
	if g := cellGapFactor * fontSize; g > minCellGap {
		return g
	}
	return minCellGap
}

func wordGap(fontSize float64) float64 {
	if g := wordGapFactor * fontSize; g > minWordGap {
		return g
	}
	return minWordGap
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
