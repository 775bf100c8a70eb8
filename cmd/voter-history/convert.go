// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/voter-history/internal/convert"
	"github.com/pdiddy/voter-history/internal/document"
	"github.com/pdiddy/voter-history/internal/export"
	"github.com/pdiddy/voter-history/internal/store"
	"github.com/pdiddy/voter-history/pkg/types"
)

const (
	defaultSource = "./Voter Participation History.pdf"
	defaultOutput = "./Voter Participation History.csv"
)

var convertCmd = &cobra.Command{
	Use:   "convert [source]",
	Short: "Convert a participation history export to CSV",
	Long: `Convert reads every data page of the export (the title page is skipped),
decodes the three-line voter groups between the page header and footer, and
writes one row per voter in page order.

A page whose voter lines do not match the fixed layout fails the whole run;
no partial output is written. When no voters are found no file is created.

With --batch, every export in a directory is converted into --output-dir;
exports whose output already exists are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.String("source", defaultSource, "participation export to read")
	f.StringP("output", "o", defaultOutput, "destination file")
	f.String("format", "", "output format: csv, json, or yaml (default: from output extension)")
	f.String("backend", string(types.BackendNative), "page text reader: native, pdftotext, or text")
	f.String("pdftotext-image", document.DefaultPdftotextImage, "container image for the pdftotext backend")
	f.Bool("sample", false, "process only the first data page")
	f.Bool("preview", false, "print the decoded records as a table")
	f.String("db", "", "also archive the run in this SQLite database")
	f.Int("lines-per-group", types.DefaultLinesPerGroup, "lines per voter group")
	f.Int("header-lines", types.DefaultHeaderLines, "header lines at the top of each data page")
	f.Int("footer-lines", types.DefaultFooterLines, "footer lines at the bottom of each data page")
	f.String("batch", "", "convert every export in this directory")
	f.String("output-dir", ".", "destination directory for --batch")

	for key, flag := range map[string]string{
		"source":                   "source",
		"output":                   "output",
		"format":                   "format",
		"backend":                  "backend",
		"pdftotext_image":          "pdftotext-image",
		"sample":                   "sample",
		"preview":                  "preview",
		"db":                       "db",
		"geometry.lines_per_group": "lines-per-group",
		"geometry.header_lines":    "header-lines",
		"geometry.footer_lines":    "footer-lines",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := conversionConfig(args)

	if dir, _ := cmd.Flags().GetString("batch"); dir != "" {
		outDir, _ := cmd.Flags().GetString("output-dir")
		return convertBatch(cfg, dir, outDir)
	}
	return convertOne(cmd.Context(), cfg, viper.GetBool("preview"), viper.GetString("db"), cmd.OutOrStdout())
}

// conversionConfig merges flags, environment, and config file; a
// positional source wins over all of them.
func conversionConfig(args []string) types.ConversionConfig {
	cfg := types.ConversionConfig{
		Source:         viper.GetString("source"),
		Output:         viper.GetString("output"),
		Format:         types.Format(viper.GetString("format")),
		Backend:        types.Backend(viper.GetString("backend")),
		PdftotextImage: viper.GetString("pdftotext_image"),
		Sample:         viper.GetBool("sample"),
		Geometry: types.Geometry{
			LinesPerGroup: viper.GetInt("geometry.lines_per_group"),
			HeaderLines:   viper.GetInt("geometry.header_lines"),
			FooterLines:   viper.GetInt("geometry.footer_lines"),
		},
	}
	if len(args) > 0 {
		cfg.Source = args[0]
	}
	return cfg
}

// convertOne converts cfg.Source, then optionally previews the records and
// archives the run.
func convertOne(ctx context.Context, cfg types.ConversionConfig, preview bool, dbPath string, stdout io.Writer) error {
	c, err := convert.New(cfg, nil, log.Logger)
	if err != nil {
		return err
	}

	records, _, err := c.ConvertFile(cfg.Source, cfg.Output)
	if err != nil {
		return err
	}

	if preview {
		export.Preview(stdout, records)
	}

	if dbPath == "" {
		return nil
	}
	st, err := store.NewStore(types.StoreConfig{DBPath: dbPath})
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.SaveRun(ctx, cfg.Source, records)
	if err != nil {
		return err
	}
	log.Info().Int64("run", run.ID).Str("db", dbPath).Msg("archived run")
	return nil
}

func convertBatch(cfg types.ConversionConfig, dir, outDir string) error {
	c, err := convert.New(cfg, nil, log.Logger)
	if err != nil {
		return err
	}
	sources, err := convert.FindSources(dir, cfg.Backend)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no exports found in %s", dir)
	}

	result := c.ConvertBatch(sources, outDir)
	if result.HasFailures() {
		return fmt.Errorf("%d export(s) failed conversion", result.Failed)
	}
	return nil
}
