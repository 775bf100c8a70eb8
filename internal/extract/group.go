// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"

	"github.com/pdiddy/voter-history/pkg/types"
)

var (
	// identityHead anchors the fixed leading tokens of line A; the rest is
	// name, address and status.
	identityHead = regexp.MustCompile(`^(\d+-\d+) (\d+) (.+)$`)

	// identityTail matches a digit-led address followed by a trailing
	// uppercase status token. The address keeps its inner whitespace.
	identityTail = regexp.MustCompile(`^(\d.*?) ([A-Z]+)$`)

	partyBallot = regexp.MustCompile(`^(\S+)\s+(.*)$`)
)

// ParseGroup decodes one voter group: the identity line, the history line,
// and the party/ballot line. It never returns a partially populated record.
func ParseGroup(lines []string) (types.VoterRecord, error) {
	if len(lines) < types.DefaultLinesPerGroup {
		return types.VoterRecord{}, &InsufficientDataError{
			Lines: lines,
			Want:  types.DefaultLinesPerGroup,
		}
	}

	rec, err := parseIdentity(lines[0])
	if err != nil {
		return types.VoterRecord{}, err
	}

	rec.History = lines[1]

	m := partyBallot.FindStringSubmatch(lines[2])
	if m == nil {
		return types.VoterRecord{}, &FormatMismatchError{Line: lines[2], Field: "party/ballot"}
	}
	rec.Party = m[1]
	rec.BallotType = m[2]

	return rec, nil
}

// parseIdentity splits line A into ward, voter id, name, address and
// status. The name is the shortest run of words after which the remainder
// still reads as a digit-led address plus status.
func parseIdentity(line string) (types.VoterRecord, error) {
	head := identityHead.FindStringSubmatch(line)
	if head == nil {
		return types.VoterRecord{}, &FormatMismatchError{Line: line, Field: "identity"}
	}
	rest := head[3]

	for i := strings.IndexByte(rest, ' '); i > 0; {
		if tail := identityTail.FindStringSubmatch(rest[i+1:]); tail != nil {
			return types.VoterRecord{
				WardPrecinct: head[1],
				VoterID:      head[2],
				Name:         rest[:i],
				Address:      tail[1],
				Status:       tail[2],
			}, nil
		}
		next := strings.IndexByte(rest[i+1:], ' ')
		if next < 0 {
			break
		}
		i += next + 1
	}

	return types.VoterRecord{}, &FormatMismatchError{Line: line, Field: "identity"}
}
