// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"github.com/pdiddy/voter-history/pkg/types"
)

// Document exposes the page texts of an opened participation export.
// Page indexes are 0-based; page 0 is the title page.
type Document interface {
	NumPages() int
	PageText(i int) (string, error)
}

// ExtractDocument concatenates the records of every data page in page
// order. The title page is skipped. In sample mode only the first data
// page is read.
func (e *Extractor) ExtractDocument(doc Document) ([]types.VoterRecord, error) {
	n := doc.NumPages()
	e.log.Info().Int("pages", n).Msg("found pages in document")

	var records []types.VoterRecord
	for i := 1; i < n; i++ {
		text, err := doc.PageText(i)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i+1, err)
		}
		page, err := e.ExtractPage(text)
		if err != nil {
			return nil, fmt.Errorf("extracting page %d: %w", i+1, err)
		}
		records = append(records, page...)
		if e.sample {
			break
		}
	}
	return records, nil
}

// ExtractPages is ExtractDocument over page texts already in memory;
// pages[0] is the title page.
func (e *Extractor) ExtractPages(pages []string) ([]types.VoterRecord, error) {
	return e.ExtractDocument(textPages(pages))
}

type textPages []string

func (p textPages) NumPages() int { return len(p) }

func (p textPages) PageText(i int) (string, error) { return p[i], nil }
