package model

import "github.com/rotisserie/eris"

// Boundary error signals. Wrap them with eris and test with eris.Is.
var (
	// ErrConfig marks a bad path, missing directory or invalid option.
	ErrConfig = eris.New("invalid configuration")

	// ErrSourceMissing means no 112 workbook carried the required columns.
	ErrSourceMissing = eris.New("source missing")

	// ErrSourceMalformed means a feed lacks a required column.
	ErrSourceMalformed = eris.New("source malformed")

	// ErrEmptyReconciliation means the 112 feed produced zero rows.
	ErrEmptyReconciliation = eris.New("empty reconciliation")

	// ErrMalformedComplaint means a complaint kept its service prefix into
	// the output tables.
	ErrMalformedComplaint = eris.New("malformed complaint")
)
