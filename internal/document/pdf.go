// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfSource reads the embedded text layer of a PDF. Scanned exports need
// OCR and are not handled.
type pdfSource struct {
	f *os.File
	r *pdf.Reader
}

func openPDF(path string) (Source, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &pdfSource{f: f, r: r}, nil
}

func (s *pdfSource) NumPages() int { return s.r.NumPage() }

// PageText rebuilds the page as lines, top to bottom. Glyphs are grouped into
// rows by baseline and ordered left to right within each row.
func (s *pdfSource) PageText(i int) (string, error) {
	p := s.r.Page(i + 1)
	if p.V.IsNull() {
		return "", nil
	}

	glyphs, err := pageGlyphs(p)
	if err != nil {
		return "", fmt.Errorf("reading text of page %d: %w", i+1, err)
	}

	rows := groupRows(glyphs)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if line := row.text(); line != "" {
			lines = append(lines, line)
		}
	}
	return normalize(strings.Join(lines, "\n")), nil
}

func (s *pdfSource) Close() error { return s.f.Close() }

const (
	// rowTolerance is how far apart, in points, two baselines may be and
	// still belong to the same row.
	rowTolerance = 2.0
	// wordGap is the horizontal gap, as a fraction of the font size, that
	// separates two words with no space glyph between them.
	wordGap = 0.2
)

// pageGlyphs returns the positioned glyphs of a page. The reader panics on
// malformed content streams.
func pageGlyphs(p pdf.Page) (glyphs []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return p.Content().Text, nil
}

type glyphRow struct {
	y      float64
	glyphs []pdf.Text
}

// groupRows buckets glyphs by baseline and returns the rows top first.
func groupRows(glyphs []pdf.Text) []glyphRow {
	var rows []glyphRow
	for _, g := range glyphs {
		if g.S == "\n" || g.S == "\r" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-g.Y) < rowTolerance {
				rows[i].glyphs = append(rows[i].glyphs, g)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, glyphRow{y: g.Y, glyphs: []pdf.Text{g}})
		}
	}

	sort.SliceStable(rows, func(a, b int) bool { return rows[a].y > rows[b].y })
	return rows
}

// text joins the glyphs of a row left to right. Space glyphs are kept as
// they are; a space is added only where two glyphs sit a word gap apart.
func (r glyphRow) text() string {
	glyphs := append([]pdf.Text(nil), r.glyphs...)
	sort.SliceStable(glyphs, func(a, b int) bool { return glyphs[a].X < glyphs[b].X })

	var b strings.Builder
	spaced := true
	for i, g := range glyphs {
		blank := strings.TrimSpace(g.S) == ""
		if i > 0 && !blank && !spaced && separated(glyphs[i-1], g) {
			b.WriteByte(' ')
		}
		b.WriteString(g.S)
		spaced = blank
	}
	return strings.TrimSpace(b.String())
}

// separated reports whether next starts a new word after prev. Fonts without
// a widths table report zero-width glyphs that share the X of their text
// run, so any forward move then marks a new run.
func separated(prev, next pdf.Text) bool {
	gap := next.X - (prev.X + prev.W)
	if prev.W == 0 {
		return gap > 0
	}
	return gap > wordGap*next.FontSize
}
