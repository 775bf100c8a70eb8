// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and configuration shared by the
// voter-history stages.
package types

// Columns is the fixed output header, in output order.
var Columns = []string{
	"Ward/Precinct",
	"Voter Record #",
	"Party",
	"Voter Name",
	"History",
	"Residence Address",
	"Status",
	"Ballot Type",
}

// VoterRecord holds one voter group decoded from a participation page.
// A parsed record always carries all eight fields; History is the only
// field that may legitimately be empty.
type VoterRecord struct {
	// WardPrecinct is the ward/precinct identifier (e.g. "12-3").
	WardPrecinct string `json:"ward_precinct" yaml:"ward_precinct"`

	// VoterID is the numeric voter record number.
	VoterID string `json:"voter_id" yaml:"voter_id"`

	// Party is the uppercase party code from the third line of the group.
	Party string `json:"party" yaml:"party"`

	// Name is the voter name as printed, punctuation included.
	Name string `json:"name" yaml:"name"`

	// History is the participation history line, verbatim.
	History string `json:"history" yaml:"history"`

	// Address is the residence address; it always starts with a digit.
	Address string `json:"address" yaml:"address"`

	// Status is the registration status token (e.g. "ACTIVE").
	Status string `json:"status" yaml:"status"`

	// BallotType is everything after the party code on the third line.
	BallotType string `json:"ballot_type" yaml:"ballot_type"`
}

// Row returns the record's fields in Columns order.
func (r VoterRecord) Row() []string {
	return []string{
		r.WardPrecinct,
		r.VoterID,
		r.Party,
		r.Name,
		r.History,
		r.Address,
		r.Status,
		r.BallotType,
	}
}
