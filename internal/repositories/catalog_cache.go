package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aurum/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogCachePrefix = "catalog:"
	catalogCacheTTL    = 5 * time.Minute
)

// cachedCatalog is a read-through Redis decorator over a CatalogRepository.
// The catalog is read-only to this engine, so a short TTL is the only
// invalidation needed. Cache failures degrade to the wrapped repository.
type cachedCatalog struct {
	next   CatalogRepository
	client *redis.Client
}

// NewCachedCatalog decorates next with a Redis read-through cache.
func NewCachedCatalog(next CatalogRepository, client *redis.Client) CatalogRepository {
	return &cachedCatalog{next: next, client: client}
}

func (c *cachedCatalog) CurrencyBySymbol(ctx context.Context, symbol string) (*models.Currency, error) {
	var currency models.Currency
	key := catalogCachePrefix + "currency:symbol:" + symbol
	if c.lookup(ctx, key, &currency) {
		return &currency, nil
	}
	fresh, err := c.next.CurrencyBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fresh)
	return fresh, nil
}

func (c *cachedCatalog) CurrencyByID(ctx context.Context, id string) (*models.Currency, error) {
	var currency models.Currency
	key := catalogCachePrefix + "currency:id:" + id
	if c.lookup(ctx, key, &currency) {
		return &currency, nil
	}
	fresh, err := c.next.CurrencyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fresh)
	return fresh, nil
}

func (c *cachedCatalog) TransactionTypeByTag(ctx context.Context, tag string) (*models.TransactionType, error) {
	var tt models.TransactionType
	key := catalogCachePrefix + "type:tag:" + tag
	if c.lookup(ctx, key, &tt) {
		return &tt, nil
	}
	fresh, err := c.next.TransactionTypeByTag(ctx, tag)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, fresh)
	return fresh, nil
}

func (c *cachedCatalog) lookup(ctx context.Context, key string, dest interface{}) bool {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false
	}
	return true
}

func (c *cachedCatalog) store(ctx context.Context, key string, value interface{}) {
	bytes, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, bytes, catalogCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

// WithCatalog returns a Store whose catalog lookups go through catalog,
// both outside and inside units of work. The catalog is read-only, so
// serving it from cache inside a transaction is safe.
func WithCatalog(store Store, catalog CatalogRepository) Store {
	return &catalogStore{Store: store, catalog: catalog}
}

type catalogStore struct {
	Store
	catalog CatalogRepository
}

func (s *catalogStore) Catalog() CatalogRepository { return s.catalog }

func (s *catalogStore) ExecuteInTransaction(ctx context.Context, fn func(Ledger) error) error {
	return s.Store.ExecuteInTransaction(ctx, func(r Ledger) error {
		return fn(&catalogLedger{Ledger: r, catalog: s.catalog})
	})
}

type catalogLedger struct {
	Ledger
	catalog CatalogRepository
}

func (l *catalogLedger) Catalog() CatalogRepository { return l.catalog }

// NewRedisClient builds a Redis client from discrete settings.
func NewRedisClient(host, port, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       db,
	})
}
