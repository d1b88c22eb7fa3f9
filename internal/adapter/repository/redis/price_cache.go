package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/melodykoh/the-mini-mint/internal/domain"
	"github.com/melodykoh/the-mini-mint/internal/usecase"
)

// PriceCache is a read-through cache in front of the price table. Latest
// prices change at most once per ingestion run, so a short TTL spares the
// database a query per trade and per portfolio view. Upserts invalidate the
// symbol so a fresh ingest is visible immediately.
type PriceCache struct {
	inner  usecase.PriceRepository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPriceCache creates a new PriceCache around a price repository.
func NewPriceCache(inner usecase.PriceRepository, client *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{
		inner:  inner,
		client: client,
		prefix: "price:latest:",
		ttl:    ttl,
	}
}

type cachedPrice struct {
	Symbol    string    `json:"symbol"`
	QuoteDate time.Time `json:"quote_date"`
	Close     string    `json:"close"`
}

// GetLatest returns the cached latest price, falling back to the inner
// repository on a miss. Cache failures fall through to the database; a
// degraded cache never fails a trade.
func (c *PriceCache) GetLatest(ctx context.Context, symbol string) (*domain.PricePoint, error) {
	key := c.prefix + symbol

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var cached cachedPrice
		if err := json.Unmarshal(raw, &cached); err == nil {
			if close, err := decimal.NewFromString(cached.Close); err == nil {
				return &domain.PricePoint{
					Symbol:    cached.Symbol,
					QuoteDate: cached.QuoteDate,
					Close:     close,
				}, nil
			}
		}
	}

	point, err := c.inner.GetLatest(ctx, symbol)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cachedPrice{
		Symbol:    point.Symbol,
		QuoteDate: point.QuoteDate,
		Close:     point.Close.String(),
	}); err == nil {
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
	}

	return point, nil
}

// Upsert writes through to the inner repository and invalidates the symbol.
func (c *PriceCache) Upsert(ctx context.Context, point *domain.PricePoint) error {
	if err := c.inner.Upsert(ctx, point); err != nil {
		return err
	}

	_ = c.client.Del(ctx, c.prefix+point.Symbol).Err()

	return nil
}
