// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives a participation export through the pipeline:
// open the document, extract voter records from every data page, and write
// the export file. Batch mode converts a directory of exports.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/voter-history/internal/document"
	"github.com/pdiddy/voter-history/internal/export"
	"github.com/pdiddy/voter-history/internal/extract"
	"github.com/pdiddy/voter-history/pkg/types"
)

// Status is the outcome of converting one export.
type Status string

const (
	StatusConverted Status = "converted"
	StatusEmpty     Status = "empty"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Opener opens a source document. document.Open is the default.
type Opener func(path string, opts document.Options) (document.Source, error)

// Converter runs conversions with one configuration.
type Converter struct {
	cfg  types.ConversionConfig
	ex   *extract.Extractor
	open Opener
	log  zerolog.Logger
}

// New validates cfg and returns a Converter. A nil opener means
// document.Open.
func New(cfg types.ConversionConfig, open Opener, log zerolog.Logger) (*Converter, error) {
	ex, err := extract.NewExtractor(
		extract.WithGeometry(cfg.Geometry),
		extract.WithSample(cfg.Sample),
		extract.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid geometry: %w", err)
	}
	if open == nil {
		open = document.Open
	}
	return &Converter{cfg: cfg, ex: ex, open: open, log: log}, nil
}

// Records reads every data page of source and returns its voters in page
// order. The document stays open for the whole read loop and is closed
// before returning, on success or failure.
func (c *Converter) Records(source string) ([]types.VoterRecord, error) {
	if _, err := os.Stat(source); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	doc, err := c.open(source, document.Options{
		Backend: c.cfg.Backend,
		Image:   c.cfg.PdftotextImage,
	})
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	records, err := c.ex.ExtractDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", source, err)
	}
	return records, nil
}

// ConvertFile converts source into output. Nothing is written when the
// export holds no voters or any page fails to parse.
func (c *Converter) ConvertFile(source, output string) ([]types.VoterRecord, Status, error) {
	records, err := c.Records(source)
	if err != nil {
		return nil, StatusFailed, err
	}

	format := c.cfg.Format
	if format == "" {
		format = export.FormatFromPath(output)
	}
	n, err := export.Write(output, format, records)
	if err != nil {
		return nil, StatusFailed, err
	}
	if n == 0 {
		c.log.Warn().Str("source", source).Msg("no voters found, nothing written")
		return records, StatusEmpty, nil
	}
	c.log.Info().Int("voters", n).Str("output", output).Msg("wrote voters")
	return records, StatusConverted, nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Empty     int
	Skipped   int
	Failed    int
}

// Total returns the number of exports processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Empty + r.Skipped + r.Failed
}

// HasFailures reports whether any export failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts every export in sources into outDir, naming each
// output after its source. Exports whose output already exists are skipped;
// a failed export does not stop the batch.
func (c *Converter) ConvertBatch(sources []string, outDir string) BatchResult {
	ext := "." + string(c.cfg.Format)
	if c.cfg.Format == "" {
		ext = "." + string(types.FormatCSV)
	}

	var result BatchResult
	for _, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		out := filepath.Join(outDir, base+ext)
		logger := c.log.With().Str("source", src).Logger()

		if _, err := os.Stat(out); err == nil {
			logger.Info().Str("output", out).Msg("skipped: output already exists")
			result.Skipped++
			continue
		}

		_, status, err := c.ConvertFile(src, out)
		switch status {
		case StatusConverted:
			result.Converted++
		case StatusEmpty:
			result.Empty++
		default:
			logger.Error().Err(err).Msg("conversion failed")
			result.Failed++
		}
	}

	c.log.Info().
		Int("converted", result.Converted).
		Int("empty", result.Empty).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("total", result.Total()).
		Msg("batch summary")
	return result
}

// FindSources lists the exports in dir matching the backend: *.pdf, or
// *.txt for the text backend. The result is sorted.
func FindSources(dir string, backend types.Backend) ([]string, error) {
	pattern := "*.pdf"
	if backend == types.BackendText {
		pattern = "*.txt"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
