// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/voter-history/pkg/types"
)

// unknownPage labels a page whose footer could not be read.
const unknownPage = "unknown"

var pageFooter = regexp.MustCompile(`Page (\d+) of (\d+)`)

// Extractor turns participation page text into voter records.
type Extractor struct {
	geometry types.Geometry
	sample   bool
	log      zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithGeometry overrides the default page grid.
func WithGeometry(g types.Geometry) Option {
	return func(e *Extractor) { e.geometry = g }
}

// WithSample limits document extraction to the first data page.
func WithSample(sample bool) Option {
	return func(e *Extractor) { e.sample = sample }
}

// WithLogger sets the diagnostics logger. The default discards output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Extractor) { e.log = l }
}

// NewExtractor returns an Extractor for the given options. It fails only
// when the configured geometry is unusable.
func NewExtractor(opts ...Option) (*Extractor, error) {
	e := &Extractor{
		geometry: types.DefaultGeometry(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.geometry.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// ExtractPage returns the records of one page, top to bottom. Header and
// footer lines are skipped, as is a trailing partial group. Any group that
// fails to parse fails the whole page.
func (e *Extractor) ExtractPage(text string) ([]types.VoterRecord, error) {
	g := e.geometry
	lines := splitLines(text)
	page := pageLabel(lines)

	end := len(lines) - g.FooterLines
	expected := 0
	if end > g.HeaderLines {
		expected = (end - g.HeaderLines) / g.LinesPerGroup
	}
	e.log.Info().Str("page", page).Int("voters", expected).Msg("found voters on page")

	records := make([]types.VoterRecord, 0, expected)
	for start := g.HeaderLines; start < end; start += g.LinesPerGroup {
		if start+g.LinesPerGroup > end {
			e.log.Debug().Str("page", page).Int("lines", end-start).Msg("skipping partial voter group")
			break
		}
		n := (start-g.HeaderLines)/g.LinesPerGroup + 1
		e.log.Debug().Str("page", page).Int("voter", n).Msg("parsing voter")

		rec, err := ParseGroup(lines[start : start+g.LinesPerGroup])
		if err != nil {
			return nil, &PageError{Page: page, Group: n, Err: err}
		}
		records = append(records, rec)
	}
	return records, nil
}

// pageLabel reads the page number from the last line, or reports it as
// unknown.
func pageLabel(lines []string) string {
	if len(lines) == 0 {
		return unknownPage
	}
	m := pageFooter.FindStringSubmatch(lines[len(lines)-1])
	if m == nil {
		return unknownPage
	}
	return m[1]
}

// splitLines splits text on line terminators. A terminator at the very end
// does not produce an empty final line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
