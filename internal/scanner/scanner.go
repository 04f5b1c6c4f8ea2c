package scanner

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/storage"
)

// Scanner detects newly listed tokens on one exchange source.
type Scanner interface {
	Name() string
	Scan(ctx context.Context) ([]models.Listing, error)
}

// Runner fans all scanners out concurrently, joins their results and
// persists the raw listings. A failing scanner is logged and skipped;
// it never aborts the others.
type Runner struct {
	scanners []Scanner
	store    storage.TokenStore
	logger   *logrus.Logger
}

func NewRunner(store storage.TokenStore, logger *logrus.Logger, scanners ...Scanner) *Runner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{scanners: scanners, store: store, logger: logger}
}

type scanResult struct {
	name     string
	listings []models.Listing
	err      error
}

// ScanAll runs every scanner and upserts what they found. Listings that
// already exist in the store are left untouched so a re-scan never
// clobbers a previously enriched record.
func (r *Runner) ScanAll(ctx context.Context) ([]models.Listing, error) {
	results := make(chan scanResult, len(r.scanners))

	var wg sync.WaitGroup
	for _, s := range r.scanners {
		wg.Add(1)
		go func(s Scanner) {
			defer wg.Done()
			listings, err := s.Scan(ctx)
			results <- scanResult{name: s.Name(), listings: listings, err: err}
		}(s)
	}
	wg.Wait()
	close(results)

	var all []models.Listing
	for res := range results {
		if res.err != nil {
			r.logger.WithError(res.err).WithField("scanner", res.name).Error("scan failed")
			continue
		}
		r.logger.WithFields(logrus.Fields{
			"scanner": res.name,
			"found":   len(res.listings),
		}).Info("scan complete")
		all = append(all, res.listings...)
	}

	for _, listing := range all {
		if _, err := r.store.GetByKey(ctx, listing.Symbol, listing.Exchange); err == nil {
			continue // already known, possibly enriched
		} else if err != storage.ErrNotFound {
			r.logger.WithError(err).WithField("symbol", listing.Symbol).Warn("store lookup failed")
			continue
		}
		if err := r.store.Upsert(ctx, &models.EnrichedToken{Listing: listing}); err != nil {
			r.logger.WithError(err).WithField("symbol", listing.Symbol).Warn("listing upsert failed")
		}
	}

	return all, nil
}
