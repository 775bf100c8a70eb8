// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes voter records to CSV, JSON, or YAML files.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/voter-history/pkg/types"
)

// Write renders records to path in the given format and returns the number
// of records written. An empty slice writes nothing and creates no file.
func Write(path string, format types.Format, records []types.VoterRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, records); err != nil {
		return 0, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(records), nil
}

// Encode writes records to w in the given format. An empty format means CSV.
func Encode(w io.Writer, format types.Format, records []types.VoterRecord) error {
	switch format {
	case types.FormatCSV, "":
		return encodeCSV(w, records)
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		return nil
	case types.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q: want csv, json, or yaml", format)
	}
}

// encodeCSV writes the fixed header followed by one row per record. There
// is no index column.
func encodeCSV(w io.Writer, records []types.VoterRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("writing CSV row for voter %s: %w", r.VoterID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFromPath guesses the export format from the file extension,
// defaulting to CSV.
func FormatFromPath(path string) types.Format {
	switch filepath.Ext(path) {
	case ".json":
		return types.FormatJSON
	case ".yaml", ".yml":
		return types.FormatYAML
	default:
		return types.FormatCSV
	}
}
