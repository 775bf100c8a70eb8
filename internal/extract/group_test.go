// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/voter-history/pkg/types"
)

func TestParseGroup(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  types.VoterRecord
	}{
		{
			name:  "simple voter",
			lines: []string{"1-2 12345 John Doe 123 Main St ACTIVE", "2020-11-03", "DEM Regular"},
			want: types.VoterRecord{
				WardPrecinct: "1-2",
				VoterID:      "12345",
				Party:        "DEM",
				Name:         "John Doe",
				History:      "2020-11-03",
				Address:      "123 Main St",
				Status:       "ACTIVE",
				BallotType:   "Regular",
			},
		},
		{
			name:  "punctuated name and short address",
			lines: []string{"1-1 888 St. John III 44 Ash ACTIVE", "", "DEM Reg"},
			want: types.VoterRecord{
				WardPrecinct: "1-1",
				VoterID:      "888",
				Party:        "DEM",
				Name:         "St. John III",
				History:      "",
				Address:      "44 Ash",
				Status:       "ACTIVE",
				BallotType:   "Reg",
			},
		},
		{
			name:  "three word name and multi word ballot",
			lines: []string{"12-30 400017 Mary Jane Smith 456 Oak Ave INACTIVE", "2016-11-08 2018-11-06 2020-11-03", "REP Absentee By Mail"},
			want: types.VoterRecord{
				WardPrecinct: "12-30",
				VoterID:      "400017",
				Party:        "REP",
				Name:         "Mary Jane Smith",
				History:      "2016-11-08 2018-11-06 2020-11-03",
				Address:      "456 Oak Ave",
				Status:       "INACTIVE",
				BallotType:   "Absentee By Mail",
			},
		},
		{
			name:  "uppercase street words stay in the address",
			lines: []string{"3-4 77 O'Neil, Ann 9 ELM ST APT 2 ACTIVE", "None", "NP Regular"},
			want: types.VoterRecord{
				WardPrecinct: "3-4",
				VoterID:      "77",
				Party:        "NP",
				Name:         "O'Neil, Ann",
				History:      "None",
				Address:      "9 ELM ST APT 2",
				Status:       "ACTIVE",
				BallotType:   "Regular",
			},
		},
		{
			name:  "accented name",
			lines: []string{"2-1 5150 José Núñez 10 Calle Real ACTIVE", "2022-11-08", "DEM Regular"},
			want: types.VoterRecord{
				WardPrecinct: "2-1",
				VoterID:      "5150",
				Party:        "DEM",
				Name:         "José Núñez",
				History:      "2022-11-08",
				Address:      "10 Calle Real",
				Status:       "ACTIVE",
				BallotType:   "Regular",
			},
		},
		{
			name:  "ballot type separated by a run of spaces",
			lines: []string{"1-2 1 Al Bo 1 A St ACTIVE", "x", "LIB    Early Vote"},
			want: types.VoterRecord{
				WardPrecinct: "1-2",
				VoterID:      "1",
				Party:        "LIB",
				Name:         "Al Bo",
				History:      "x",
				Address:      "1 A St",
				Status:       "ACTIVE",
				BallotType:   "Early Vote",
			},
		},
		{
			name:  "address with a doubled space",
			lines: []string{"1-2 5 John Doe 12  Main St ACTIVE", "2020-11-03", "DEM Regular"},
			want: types.VoterRecord{
				WardPrecinct: "1-2",
				VoterID:      "5",
				Party:        "DEM",
				Name:         "John Doe",
				History:      "2020-11-03",
				Address:      "12  Main St",
				Status:       "ACTIVE",
				BallotType:   "Regular",
			},
		},
		{
			name:  "address with a tab",
			lines: []string{"1-2 5 John Doe 12\tMain St ACTIVE", "2020-11-03", "DEM Regular"},
			want: types.VoterRecord{
				WardPrecinct: "1-2",
				VoterID:      "5",
				Party:        "DEM",
				Name:         "John Doe",
				History:      "2020-11-03",
				Address:      "12\tMain St",
				Status:       "ACTIVE",
				BallotType:   "Regular",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGroup(tt.lines)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Well-formed groups reassemble into their source lines.
func TestParseGroup_Reconstructs(t *testing.T) {
	groups := [][]string{
		{"1-2 12345 John Doe 123 Main St ACTIVE", "2020-11-03", "DEM Regular"},
		{"1-1 888 St. John III 44 Ash ACTIVE", "", "DEM Reg"},
		{"7-12 9 A B C D 1E F G H PURGED", "2012-11-06 2014-11-04", "GRN Provisional Ballot"},
	}
	for _, lines := range groups {
		rec, err := ParseGroup(lines)
		require.NoError(t, err, lines[0])

		assert.Equal(t, lines[0], rec.WardPrecinct+" "+rec.VoterID+" "+rec.Name+" "+rec.Address+" "+rec.Status)
		assert.Equal(t, lines[1], rec.History)
		assert.Equal(t, lines[2], rec.Party+" "+rec.BallotType)
	}
}

func TestParseGroup_FormatMismatch(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		wantLine string
	}{
		{
			name:     "free text identity line",
			lines:    []string{"invalid format", "2020-11-03", "DEM Regular"},
			wantLine: "invalid format",
		},
		{
			name:     "address without leading digit",
			lines:    []string{"1-2 12345 John Doe Main St ACTIVE", "2020-11-03", "DEM Regular"},
			wantLine: "1-2 12345 John Doe Main St ACTIVE",
		},
		{
			name:     "lowercase status",
			lines:    []string{"1-2 12345 John Doe 123 Main St active", "", "DEM Regular"},
			wantLine: "1-2 12345 John Doe 123 Main St active",
		},
		{
			name:     "non numeric voter id",
			lines:    []string{"1-2 AB345 John Doe 123 Main St ACTIVE", "", "DEM Regular"},
			wantLine: "1-2 AB345 John Doe 123 Main St ACTIVE",
		},
		{
			name:     "party line without ballot type",
			lines:    []string{"1-2 12345 John Doe 123 Main St ACTIVE", "", "DEM"},
			wantLine: "DEM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGroup(tt.lines)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormatMismatch)

			var fm *FormatMismatchError
			require.True(t, errors.As(err, &fm))
			assert.Equal(t, tt.wantLine, fm.Line)
			assert.Contains(t, err.Error(), tt.wantLine)
		})
	}
}

func TestParseGroup_InsufficientData(t *testing.T) {
	_, err := ParseGroup([]string{"1-2 12345 John Doe 123 Main St ACTIVE", "2020-11-03"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.NotErrorIs(t, err, ErrFormatMismatch)
	assert.Contains(t, err.Error(), "1-2 12345 John Doe")

	_, err = ParseGroup(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
