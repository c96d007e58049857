package domain

import "errors"

var (
	// ErrDatasetNotLoaded signals that no dataset snapshot is available yet.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	// ErrNoMergeMetadata signals that a source carries no merge ranges and the
	// caller must fall back to the constant-value heuristic.
	ErrNoMergeMetadata = errors.New("no merge metadata for source")
	// ErrManuscriptNotFound signals a missing manuscript key.
	ErrManuscriptNotFound = errors.New("manuscript not found")
	// ErrNoKey signals an operation on a record whose depository and shelf mark
	// are both blank.
	ErrNoKey = errors.New("record has no manuscript key")
	// ErrUnknownFacet signals a selection against a facet field that is not in
	// the catalog.
	ErrUnknownFacet = errors.New("unknown facet field")
	// ErrUnknownMode signals a query mode other than rows or manuscripts.
	ErrUnknownMode = errors.New("unknown query mode")
	// ErrUnparseableValue signals a cell value that could not be parsed into
	// the requested typed form.
	ErrUnparseableValue = errors.New("unparseable value")
	// ErrLookupUnavailable signals a lookup table whose load failed terminally.
	ErrLookupUnavailable = errors.New("lookup table unavailable")
)
