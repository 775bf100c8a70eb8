// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/voter-history/internal/export"
	"github.com/pdiddy/voter-history/internal/store"
	"github.com/pdiddy/voter-history/pkg/types"
)

const defaultDB = "voter-history.db"

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Query conversion runs archived with convert --db",
	Long: `Store reads the SQLite archive written by convert --db. Use subcommands
to list runs, query voters of a run, or count voters per ward/precinct.`,
}

// --- runs subcommand ---

var storeRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived conversion runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.Runs(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeJSON(out, runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs archived.")
			return nil
		}
		fmt.Fprintf(out, "%-4s  %-20s  %-8s  %s\n", "Run", "Created", "Voters", "Source")
		for _, r := range runs {
			fmt.Fprintf(out, "%-4d  %-20s  %-8d  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Records, r.Source)
		}
		return nil
	},
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "List voters of a run, filtered by ward/precinct, party, or status",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		ward, _ := cmd.Flags().GetString("ward")
		party, _ := cmd.Flags().GetString("party")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := st.Records(cmd.Context(), store.QueryOptions{
			RunID:        runID,
			WardPrecinct: ward,
			Party:        party,
			Status:       status,
			Limit:        limit,
		})
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			export.Preview(cmd.OutOrStdout(), records)
			return nil
		}
		return export.Encode(cmd.OutOrStdout(), types.Format(format), records)
	},
}

// --- wards subcommand ---

var storeWardsCmd = &cobra.Command{
	Use:   "wards",
	Short: "Count voters per ward/precinct in a run",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		runID, _ := cmd.Flags().GetInt64("run")
		counts, err := st.WardSummary(cmd.Context(), runID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return writeJSON(out, counts)
		}
		fmt.Fprintf(out, "%-14s  %s\n", "Ward/Precinct", "Voters")
		total := 0
		for _, c := range counts {
			fmt.Fprintf(out, "%-14s  %d\n", c.WardPrecinct, c.Voters)
			total += c.Voters
		}
		fmt.Fprintf(out, "\n%d voters in %d wards/precincts\n", total, len(counts))
		return nil
	},
}

// openStore opens the archive named by --db, falling back to the db
// config key and then to ./voter-history.db.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	path, _ := cmd.Flags().GetString("db")
	if !cmd.Flags().Changed("db") {
		if v := viper.GetString("db"); v != "" {
			path = v
		}
	}
	return store.NewStore(types.StoreConfig{DBPath: path})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	storeCmd.PersistentFlags().String("db", defaultDB, "SQLite archive path")

	storeRunsCmd.Flags().Bool("json", false, "output runs as JSON")

	storeQueryCmd.Flags().Int64("run", 0, "run id (0 = most recent)")
	storeQueryCmd.Flags().String("ward", "", "filter by ward/precinct")
	storeQueryCmd.Flags().String("party", "", "filter by party code")
	storeQueryCmd.Flags().String("status", "", "filter by status")
	storeQueryCmd.Flags().Int("limit", 0, "maximum voters (0 = 100)")
	storeQueryCmd.Flags().String("format", "", "csv, json, or yaml (default: table)")

	storeWardsCmd.Flags().Int64("run", 0, "run id (0 = most recent)")
	storeWardsCmd.Flags().Bool("json", false, "output counts as JSON")

	storeCmd.AddCommand(storeRunsCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeWardsCmd)

	rootCmd.AddCommand(storeCmd)
}
