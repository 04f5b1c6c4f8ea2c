package scanner

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/storage"
)

// diffScan compares the current pair list against the set recorded on
// the previous scan and parses the additions into listings. A cold
// start has no baseline: the full set is recorded and nothing is
// reported, otherwise the first scan would announce every pair on the
// exchange.
func diffScan(ctx context.Context, exchange string, memory storage.PairMemory, logger *logrus.Logger, current []string, parse func(pair string) (models.Listing, bool)) ([]models.Listing, error) {
	seen, err := memory.SeenPairs(ctx, exchange)
	if err != nil {
		return nil, err
	}
	if len(seen) == 0 {
		return nil, memory.StoreSeenPairs(ctx, exchange, current)
	}

	seenSet := make(map[string]struct{}, len(seen))
	for _, p := range seen {
		seenSet[p] = struct{}{}
	}

	var listings []models.Listing
	for _, pair := range current {
		if _, ok := seenSet[pair]; ok {
			continue
		}
		if l, ok := parse(pair); ok {
			listings = append(listings, l)
		}
	}

	// Losing the baseline update is recoverable (the next scan will
	// report the same pairs again); losing detected listings is not.
	if err := memory.StoreSeenPairs(ctx, exchange, current); err != nil {
		logger.WithError(err).WithField("exchange", exchange).Warn("failed to record seen pairs")
	}
	return listings, nil
}
