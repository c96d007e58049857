// Package lookup loads the auxiliary dictionaries (depository abbreviations,
// shelf-mark abbreviations, text titles) with one-shot memoization: each
// resource is fetched at most once per process, concurrent callers share the
// in-flight load, and a failed load is cached as terminally unavailable so
// repeated calls do not re-attempt indefinitely.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/db"
	"github.com/PatrikGranholm/nordiclaw/internal/domain"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/parse"
	"github.com/PatrikGranholm/nordiclaw/internal/metrics"
)

// Dictionary resource names.
const (
	ResourceDepositories  = "depositories"
	ResourceAbbreviations = "abbreviations"
	ResourceTitles        = "titles"
)

const cacheKeyPrefix = "nordiclaw:lookup:"

// Repo serves lookup tables from local JSON dictionaries, cached through a
// db.Store so repeated process runs skip the file read.
type Repo struct {
	dir    string
	store  db.Store
	ttl    time.Duration
	logger *zap.Logger

	mu        sync.Mutex
	resources map[string]*resource
}

type resource struct {
	once sync.Once
	data map[string]string
	err  error
}

// New creates a lookup repository. store may be nil (no cross-run caching);
// logger may be nil.
func New(dir string, store db.Store, ttl time.Duration, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{
		dir:       dir,
		store:     store,
		ttl:       ttl,
		logger:    logger,
		resources: make(map[string]*resource),
	}
}

// DepositoryAbbreviation resolves a full depository name to its catalog
// abbreviation. Misses and unavailable tables both report ok=false.
func (r *Repo) DepositoryAbbreviation(ctx context.Context, name string) (string, bool) {
	return r.resolve(ctx, ResourceDepositories, name)
}

// Abbreviation resolves a shelf-mark abbreviation.
func (r *Repo) Abbreviation(ctx context.Context, key string) (string, bool) {
	return r.resolve(ctx, ResourceAbbreviations, key)
}

// Title resolves a text title.
func (r *Repo) Title(ctx context.Context, key string) (string, bool) {
	return r.resolve(ctx, ResourceTitles, key)
}

func (r *Repo) resolve(ctx context.Context, name, key string) (string, bool) {
	table, err := r.table(ctx, name)
	if err != nil {
		return "", false
	}
	v, ok := table[parse.Fold(key)]
	return v, ok
}

// table returns a memoized dictionary. The sync.Once per resource gives every
// concurrent caller the single in-flight load and caches errors terminally.
func (r *Repo) table(ctx context.Context, name string) (map[string]string, error) {
	r.mu.Lock()
	res, ok := r.resources[name]
	if !ok {
		res = &resource{}
		r.resources[name] = res
	}
	r.mu.Unlock()

	res.once.Do(func() {
		res.data, res.err = r.load(ctx, name)
		if res.err != nil {
			r.logger.Warn("lookup table unavailable",
				zap.String("resource", name), zap.Error(res.err))
		}
	})
	return res.data, res.err
}

func (r *Repo) load(ctx context.Context, name string) (map[string]string, error) {
	if r.store != nil {
		if data, err := r.store.Get(ctx, cacheKeyPrefix+name); err == nil {
			table, err := decodeTable(data)
			if err == nil {
				metrics.LookupLoadsTotal.WithLabelValues(name, "cache_hit").Inc()
				return table, nil
			}
			// Stale or corrupt cache entry falls through to the file.
			_ = r.store.Del(ctx, cacheKeyPrefix+name)
		}
	}

	path := filepath.Join(r.dir, name+".json")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		metrics.LookupLoadsTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrLookupUnavailable, name, err)
	}
	table, err := decodeTable(data)
	if err != nil {
		metrics.LookupLoadsTotal.WithLabelValues(name, "error").Inc()
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrLookupUnavailable, name, err)
	}

	if r.store != nil {
		if err := r.store.SetWithTTL(ctx, cacheKeyPrefix+name, data, r.ttl); err != nil {
			r.logger.Debug("lookup cache write failed", zap.String("resource", name), zap.Error(err))
		}
	}
	metrics.LookupLoadsTotal.WithLabelValues(name, "ok").Inc()
	return table, nil
}

// decodeTable parses a dictionary and folds its keys for case- and
// diacritic-insensitive resolution.
func decodeTable(data []byte) (map[string]string, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	table := make(map[string]string, len(raw))
	for k, v := range raw {
		table[parse.Fold(k)] = v
	}
	return table, nil
}
