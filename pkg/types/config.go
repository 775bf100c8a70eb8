// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Default page geometry of the participation export.
const (
	DefaultLinesPerGroup = 3
	DefaultHeaderLines   = 6
	DefaultFooterLines   = 1
)

// Geometry describes the fixed grid every data page conforms to.
type Geometry struct {
	// LinesPerGroup is the number of lines that make up one voter group.
	LinesPerGroup int `json:"lines_per_group" yaml:"lines_per_group" mapstructure:"lines_per_group"`

	// HeaderLines is the number of boilerplate lines at the top of a page.
	HeaderLines int `json:"header_lines" yaml:"header_lines" mapstructure:"header_lines"`

	// FooterLines is the number of lines after the last group, including
	// the "Page N of M" line.
	FooterLines int `json:"footer_lines" yaml:"footer_lines" mapstructure:"footer_lines"`
}

// DefaultGeometry returns the 3/6/1 grid of the participation export.
func DefaultGeometry() Geometry {
	return Geometry{
		LinesPerGroup: DefaultLinesPerGroup,
		HeaderLines:   DefaultHeaderLines,
		FooterLines:   DefaultFooterLines,
	}
}

// Validate reports whether the geometry can drive page extraction.
func (g Geometry) Validate() error {
	if g.LinesPerGroup < DefaultLinesPerGroup {
		return fmt.Errorf("lines per group must be at least %d, got %d", DefaultLinesPerGroup, g.LinesPerGroup)
	}
	if g.HeaderLines < 0 {
		return fmt.Errorf("header lines must not be negative, got %d", g.HeaderLines)
	}
	if g.FooterLines < 0 {
		return fmt.Errorf("footer lines must not be negative, got %d", g.FooterLines)
	}
	return nil
}

// Backend identifies how page text is read from the source document.
type Backend string

const (
	BackendNative    Backend = "native"
	BackendPdftotext Backend = "pdftotext"
	BackendText      Backend = "text"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ConversionConfig holds settings for the convert command.
type ConversionConfig struct {
	// Source is the path of the participation export (PDF or text).
	Source string `json:"source" yaml:"source" mapstructure:"source"`

	// Output is the destination file path.
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// Format selects csv, json, or yaml output.
	Format Format `json:"format" yaml:"format" mapstructure:"format"`

	// Backend selects the page text reader: native, pdftotext, or text.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// PdftotextImage is the container image used by the pdftotext backend.
	PdftotextImage string `json:"pdftotext_image" yaml:"pdftotext_image" mapstructure:"pdftotext_image"`

	// Sample processes only the first data page.
	Sample bool `json:"sample" yaml:"sample" mapstructure:"sample"`

	// Geometry overrides the page grid.
	Geometry Geometry `json:"geometry" yaml:"geometry" mapstructure:"geometry"`
}

// StoreConfig holds settings for the SQLite run archive.
type StoreConfig struct {
	// DBPath is the SQLite database file.
	DBPath string `json:"db" yaml:"db" mapstructure:"db"`
}
