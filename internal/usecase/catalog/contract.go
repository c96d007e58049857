package catalog

import (
	"context"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

// Dataset is one ingested source: the raw column order, the normalized rows
// in source order, and the merge ranges its sidecar metadata carried (empty
// slice when the sidecar exists but holds nothing, nil when there is none).
type Dataset struct {
	SourceID string
	Columns  []string
	Rows     []*record.Record
	Ranges   []span.Range
	HasMerge bool
}

// DatasetReader ingests a source by id.
type DatasetReader interface {
	Read(ctx context.Context, sourceID string) (Dataset, error)
}
