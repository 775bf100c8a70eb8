// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pdiddy/voter-history/internal/container"
)

// pdftotextCommand writes content-stream ordered text to stdout, one form
// feed after each page.
var pdftotextCommand = []string{"pdftotext", "-raw", "-enc", "UTF-8", "-", "-"}

// openPdftotext pipes the PDF through pdftotext in a container and serves
// the resulting pages from memory.
func openPdftotext(path string, rt container.Runtime, image string) (Source, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftotext image not available in %s: %w", rt.Name(), err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := rt.Exec(image, pdftotextCommand, f, &out); err != nil {
		return nil, fmt.Errorf("converting %s with pdftotext: %w", path, err)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("pdftotext produced empty output for %s", path)
	}
	return &textSource{pages: splitPages(out.String())}, nil
}
