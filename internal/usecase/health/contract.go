package health

import "context"

// CachePinger checks cache connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// DatasetChecker reports whether a dataset snapshot is available.
type DatasetChecker interface {
	Check(ctx context.Context) error
}
