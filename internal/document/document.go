// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document opens a participation export and serves its page texts,
// one string per page with line breaks in reading order.
package document

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/voter-history/internal/container"
	"github.com/pdiddy/voter-history/pkg/types"
)

// DefaultPdftotextImage is the poppler image used by the pdftotext backend.
const DefaultPdftotextImage = "minidocks/poppler:latest"

// pageBreak separates pages in text exports and pdftotext output.
const pageBreak = "\f"

// Source is an opened export. Close must be called once all pages have
// been read.
type Source interface {
	NumPages() int
	PageText(i int) (string, error)
	Close() error
}

// Options selects how Open reads the source.
type Options struct {
	Backend types.Backend

	// Image overrides DefaultPdftotextImage.
	Image string

	// Runtime runs the pdftotext container. Open detects one when nil.
	Runtime container.Runtime
}

// Open returns a Source for path using the configured backend. An empty
// backend means native PDF reading.
func Open(path string, opts Options) (Source, error) {
	switch opts.Backend {
	case types.BackendNative, "":
		return openPDF(path)
	case types.BackendText:
		return openText(path)
	case types.BackendPdftotext:
		rt := opts.Runtime
		if rt == nil {
			var err error
			if rt, err = container.DetectRuntime(); err != nil {
				return nil, err
			}
		}
		image := opts.Image
		if image == "" {
			image = DefaultPdftotextImage
		}
		return openPdftotext(path, rt, image)
	default:
		return nil, fmt.Errorf("unknown backend %q: want native, pdftotext, or text", opts.Backend)
	}
}

// textSource serves pages already held in memory.
type textSource struct {
	pages []string
}

func (s *textSource) NumPages() int { return len(s.pages) }

func (s *textSource) PageText(i int) (string, error) {
	if i < 0 || i >= len(s.pages) {
		return "", fmt.Errorf("page index %d out of range [0, %d)", i, len(s.pages))
	}
	return s.pages[i], nil
}

func (s *textSource) Close() error { return nil }

func openText(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text export %s: %w", path, err)
	}
	return &textSource{pages: splitPages(string(data))}, nil
}

// splitPages cuts form-feed separated text into normalized pages. A form
// feed at the very end does not start another page.
func splitPages(text string) []string {
	text = strings.TrimSuffix(text, pageBreak)
	if text == "" {
		return nil
	}
	pages := strings.Split(text, pageBreak)
	for i, p := range pages {
		pages[i] = normalize(p)
	}
	return pages
}

// normalize composes accented characters so names encode the same way
// whichever extractor produced them.
func normalize(s string) string {
	return norm.NFC.String(s)
}
