// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/voter-history/internal/document"
	"github.com/pdiddy/voter-history/internal/extract"
	"github.com/pdiddy/voter-history/pkg/types"
)

const header = "L1\nL2\nL3\nL4\nL5\nL6"

// fakeSource implements document.Source and records whether it was closed.
type fakeSource struct {
	pages  []string
	closed bool
}

func (f *fakeSource) NumPages() int { return len(f.pages) }

func (f *fakeSource) PageText(i int) (string, error) { return f.pages[i], nil }

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func page(footer string, groups ...string) string {
	return header + "\n" + strings.Join(groups, "\n") + "\n" + footer
}

const (
	johnDoe = "1-2 12345 John Doe 123 Main St ACTIVE\n2020-11-03\nDEM Regular"
	badLine = "invalid format\n2020-11-03\nDEM Regular"
)

// writeExport writes a form-feed separated text export into dir.
func writeExport(t *testing.T, dir, name string, pages ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(pages, "\f")), 0o644))
	return path
}

func textConfig() types.ConversionConfig {
	return types.ConversionConfig{Backend: types.BackendText, Geometry: types.DefaultGeometry()}
}

func newConverter(t *testing.T, cfg types.ConversionConfig, open Opener) *Converter {
	t.Helper()
	c, err := New(cfg, open, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestRecords_ClosesDocument(t *testing.T) {
	src := writeExport(t, t.TempDir(), "x.pdf", "placeholder")

	tests := []struct {
		name    string
		pages   []string
		wantErr bool
	}{
		{name: "success", pages: []string{"Title", page("Page 1 of 1", johnDoe)}},
		{name: "parse failure", pages: []string{"Title", page("Page 1 of 1", badLine)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &fakeSource{pages: tt.pages}
			open := func(string, document.Options) (document.Source, error) { return doc, nil }

			records, err := newConverter(t, textConfig(), open).Records(src)
			if tt.wantErr {
				assert.ErrorIs(t, err, extract.ErrFormatMismatch)
			} else {
				require.NoError(t, err)
				assert.Len(t, records, 1)
			}
			assert.True(t, doc.closed, "document must be closed")
		})
	}
}

func TestRecords_OpenFailure(t *testing.T) {
	src := writeExport(t, t.TempDir(), "x.pdf", "placeholder")
	boom := errors.New("not a PDF")
	open := func(string, document.Options) (document.Source, error) { return nil, boom }

	_, err := newConverter(t, textConfig(), open).Records(src)
	assert.ErrorIs(t, err, boom)
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		pages      []string
		wantStatus Status
		wantFile   bool
		wantErr    bool
	}{
		{
			name:       "voters written",
			pages:      []string{"Title", page("Page 1 of 2", johnDoe), page("Page 2 of 2", johnDoe, johnDoe)},
			wantStatus: StatusConverted,
			wantFile:   true,
		},
		{
			name:       "no voters",
			pages:      []string{"Title", header + "\nPage 1 of 1"},
			wantStatus: StatusEmpty,
		},
		{
			name:       "malformed page",
			pages:      []string{"Title", page("Page 1 of 2", johnDoe), page("Page 2 of 2", badLine)},
			wantStatus: StatusFailed,
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeExport(t, dir, "export.txt", tt.pages...)
			out := filepath.Join(dir, "out", "voters.csv")

			_, status, err := newConverter(t, textConfig(), nil).ConvertFile(src, out)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantFile {
				data, err := os.ReadFile(out)
				require.NoError(t, err)
				assert.Equal(t, 4, strings.Count(string(data), "\n"), "header plus three voters")
			} else {
				assert.NoFileExists(t, out)
			}
		})
	}
}

func TestConvertBatch(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()

	writeExport(t, inDir, "a.txt", "Title", page("Page 1 of 1", johnDoe))
	writeExport(t, inDir, "b.txt", "Title", page("Page 1 of 1", johnDoe))
	writeExport(t, inDir, "c.txt", "Title", page("Page 1 of 1", badLine))
	writeExport(t, inDir, "d.txt", "Title")
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "b.csv"), []byte("existing"), 0o644))

	sources, err := FindSources(inDir, types.BackendText)
	require.NoError(t, err)
	require.Len(t, sources, 4)

	result := newConverter(t, textConfig(), nil).ConvertBatch(sources, outDir)

	assert.Equal(t, BatchResult{Converted: 1, Empty: 1, Skipped: 1, Failed: 1}, result)
	assert.Equal(t, 4, result.Total())
	assert.True(t, result.HasFailures())
	assert.FileExists(t, filepath.Join(outDir, "a.csv"))
	assert.NoFileExists(t, filepath.Join(outDir, "c.csv"))

	data, err := os.ReadFile(filepath.Join(outDir, "b.csv"))
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestConvertBatch_FormatExtension(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	src := writeExport(t, inDir, "2020-general.txt", "Title", page("Page 1 of 1", johnDoe))

	cfg := textConfig()
	cfg.Format = types.FormatYAML
	result := newConverter(t, cfg, nil).ConvertBatch([]string{src}, outDir)

	assert.Equal(t, 1, result.Converted)
	assert.FileExists(t, filepath.Join(outDir, "2020-general.yaml"))
}

func TestFindSources(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	got, err := FindSources(dir, types.BackendNative)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "b.pdf")}, got)

	got, err = FindSources(dir, types.BackendText)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes.txt")}, got)
}

func TestNew_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		adjust func(*types.Geometry)
	}{
		{name: "negative header", adjust: func(g *types.Geometry) { g.HeaderLines = -2 }},
		{name: "group shorter than three lines", adjust: func(g *types.Geometry) { g.LinesPerGroup = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := textConfig()
			tt.adjust(&cfg.Geometry)
			_, err := New(cfg, nil, zerolog.Nop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid geometry")
		})
	}

	cfg := textConfig()
	cfg.Geometry.LinesPerGroup = 4
	_, err := New(cfg, nil, zerolog.Nop())
	assert.NoError(t, err, "larger groups are allowed")
}

// renderPDF writes a Helvetica PDF with one text run per line.
func renderPDF(t *testing.T, path string, pages ...[]string) {
	t.Helper()
	doc := gofpdf.New("P", "pt", "Letter", "")
	for _, lines := range pages {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 9)
		for i, line := range lines {
			doc.Text(36, 48+float64(i)*14, line)
		}
	}
	require.NoError(t, doc.OutputFileAndClose(path))
}

func TestConvertFile_NativePDF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "participation.pdf")
	data := strings.Split(page("Page 1 of 1",
		johnDoe,
		"3-14 67890 Mary Ann Smith 45 Oak  Ave INACTIVE\n2021-05-04\nREP Absentee By Mail",
	), "\n")
	renderPDF(t, src, []string{"Voter Participation History", "Generated 2024-01-01"}, data)
	out := filepath.Join(dir, "voters.csv")

	cfg := types.ConversionConfig{Backend: types.BackendNative, Geometry: types.DefaultGeometry()}
	records, status, err := newConverter(t, cfg, document.Open).ConvertFile(src, out)
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, status)
	require.Len(t, records, 2)

	assert.Equal(t, types.VoterRecord{
		WardPrecinct: "1-2",
		VoterID:      "12345",
		Party:        "DEM",
		Name:         "John Doe",
		History:      "2020-11-03",
		Address:      "123 Main St",
		Status:       "ACTIVE",
		BallotType:   "Regular",
	}, records[0])
	assert.Equal(t, "Mary Ann Smith", records[1].Name)
	assert.Equal(t, "45 Oak  Ave", records[1].Address)
	assert.Equal(t, "Absentee By Mail", records[1].BallotType)

	csv, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(csv), "\n"), "header plus two voters")
}
