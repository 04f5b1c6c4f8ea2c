package storage

import (
	"context"
	"errors"
	"io"

	"github.com/tokenscope/tokenscope/internal/models"
)

// ErrNotFound is returned when a token is absent from the store.
var ErrNotFound = errors.New("token not found")

// TokenStore is the persistence sink for listings and enriched tokens.
// Records are keyed by (symbol, exchange) with idempotent overwrite
// semantics; no cross-record transactions are assumed.
type TokenStore interface {
	// Upsert stores or overwrites the record for (symbol, exchange).
	Upsert(ctx context.Context, token *models.EnrichedToken) error

	// Get returns the record for a symbol. When the same symbol is
	// listed on several exchanges the lexicographically first exchange
	// wins, keeping lookups deterministic.
	Get(ctx context.Context, symbol string) (*models.EnrichedToken, error)

	// GetByKey returns the record for an exact (symbol, exchange) pair.
	GetByKey(ctx context.Context, symbol, exchange string) (*models.EnrichedToken, error)

	// List returns every stored record.
	List(ctx context.Context) ([]*models.EnrichedToken, error)

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	io.Closer
}

// PairMemory remembers which trading pairs a scanner has already seen,
// so restarts do not re-announce the whole exchange.
type PairMemory interface {
	// SeenPairs returns the pair set recorded for an exchange.
	SeenPairs(ctx context.Context, exchange string) ([]string, error)

	// StoreSeenPairs replaces the recorded pair set for an exchange.
	StoreSeenPairs(ctx context.Context, exchange string, pairs []string) error
}

// HistoryStore is the append-only sink for enrichment outcomes, used
// for after-the-fact performance analysis.
type HistoryStore interface {
	// InsertEnrichment appends one enrichment outcome row.
	InsertEnrichment(ctx context.Context, token *models.EnrichedToken) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	io.Closer
}
