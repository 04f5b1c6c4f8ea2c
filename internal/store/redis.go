package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/storage"
)

var symbolRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,32}$`)

// RedisStore keeps tokens as JSON values under per-record keys plus an
// index set of (exchange, symbol) members, so List stays one MGET.
type RedisStore struct {
	client redis.Cmdable
	closer func() error
}

// NewRedisStore wraps an existing redis client.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &RedisStore{client: client, closer: client.Close}, nil
}

// ValidateSymbol rejects symbols that cannot form a safe redis key.
func ValidateSymbol(symbol string) error {
	if !symbolRe.MatchString(symbol) {
		return fmt.Errorf("invalid symbol")
	}
	return nil
}

func tokenKey(exchange, symbol string) string {
	return constants.RedisKeyTokenPrefix + exchange + ":" + strings.ToUpper(symbol)
}

func indexMember(exchange, symbol string) string {
	return exchange + ":" + strings.ToUpper(symbol)
}

func (s *RedisStore) Upsert(ctx context.Context, token *models.EnrichedToken) error {
	if err := ValidateSymbol(token.Symbol); err != nil {
		return err
	}
	if token.Exchange == "" {
		return fmt.Errorf("exchange is required")
	}

	b, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token.Exchange, token.Symbol), b, 0)
	pipe.SAdd(ctx, constants.RedisKeyTokenIndex, indexMember(token.Exchange, token.Symbol))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("upsert token: %w", err)
	}
	return nil
}

func (s *RedisStore) GetByKey(ctx context.Context, symbol, exchange string) (*models.EnrichedToken, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, tokenKey(exchange, symbol)).Result()
	if err == redis.Nil {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get token: %w", err)
	}

	var t models.EnrichedToken
	if err := json.Unmarshal([]byte(val), &t); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &t, nil
}

func (s *RedisStore) Get(ctx context.Context, symbol string) (*models.EnrichedToken, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	members, err := s.client.SMembers(ctx, constants.RedisKeyTokenIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list token index: %w", err)
	}
	sort.Strings(members)

	want := strings.ToUpper(symbol)
	for _, m := range members {
		// index members are "exchange:SYMBOL"; the exchange name never
		// contains a colon.
		idx := strings.LastIndex(m, ":")
		if idx < 0 || m[idx+1:] != want {
			continue
		}
		return s.GetByKey(ctx, want, m[:idx])
	}
	return nil, storage.ErrNotFound
}

func (s *RedisStore) List(ctx context.Context) ([]*models.EnrichedToken, error) {
	members, err := s.client.SMembers(ctx, constants.RedisKeyTokenIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list token index: %w", err)
	}
	if len(members) == 0 {
		return []*models.EnrichedToken{}, nil
	}
	sort.Strings(members)

	keys := make([]string, 0, len(members))
	for _, m := range members {
		idx := strings.LastIndex(m, ":")
		if idx < 0 {
			continue
		}
		keys = append(keys, tokenKey(m[:idx], m[idx+1:]))
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget tokens: %w", err)
	}

	out := make([]*models.EnrichedToken, 0, len(vals))
	for _, v := range vals {
		sv, ok := v.(string)
		if !ok {
			continue
		}
		var t models.EnrichedToken
		if err := json.Unmarshal([]byte(sv), &t); err != nil {
			continue
		}
		out = append(out, &t)
	}
	return out, nil
}

// SeenPairs returns the pair set recorded for an exchange scanner.
func (s *RedisStore) SeenPairs(ctx context.Context, exchange string) ([]string, error) {
	pairs, err := s.client.SMembers(ctx, constants.RedisKeyPairsPrefix+exchange).Result()
	if err != nil {
		return nil, fmt.Errorf("seen pairs: %w", err)
	}
	return pairs, nil
}

// StoreSeenPairs replaces the recorded pair set for an exchange scanner.
func (s *RedisStore) StoreSeenPairs(ctx context.Context, exchange string, pairs []string) error {
	key := constants.RedisKeyPairsPrefix + exchange

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(pairs) > 0 {
		members := make([]interface{}, len(pairs))
		for i, p := range pairs {
			members[i] = p
		}
		pipe.SAdd(ctx, key, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store seen pairs: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	if s.closer != nil {
		return s.closer()
	}
	return nil
}
