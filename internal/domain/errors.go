package domain

import "errors"

var (
	// ErrDatasetNotFound is returned when the CSV file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrMalformedDataset is returned when the CSV cannot be parsed or lacks a required column.
	ErrMalformedDataset = errors.New("malformed dataset")

	ErrUnknownIndicator = errors.New("unknown indicator")
	ErrUnknownRegion    = errors.New("unknown region")
)

// ErrMissingValue marks a row rejected because a required cell is empty or unparseable.
var ErrMissingValue = errors.New("missing value")
