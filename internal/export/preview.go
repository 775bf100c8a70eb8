// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/voter-history/pkg/types"
)

// Preview prints records as a fixed-width table for a quick look at a
// sample run. Long values are truncated.
func Preview(w io.Writer, records []types.VoterRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "%-8s  %-10s  %-5s  %-24s  %-24s  %-8s  %s\n",
		"Ward", "Voter #", "Party", "Name", "Address", "Status", "Ballot")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range records {
		fmt.Fprintf(w, "%-8s  %-10s  %-5s  %-24s  %-24s  %-8s  %s\n",
			r.WardPrecinct, r.VoterID, r.Party, clip(r.Name, 24), clip(r.Address, 24), r.Status, r.BallotType)
	}
	fmt.Fprintf(w, "\n%d records\n", len(records))
}

func clip(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-3]) + "..."
}
