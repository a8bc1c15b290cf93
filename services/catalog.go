package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"regexp"
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/cache"
	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/singleflight"
)

const (
	brandsCacheKey = "catalog:brands"
	partsCacheKey  = "catalog:parts"

	// loadTimeout bounds a shared cache fill, which outlives any one request.
	loadTimeout = 10 * time.Second
)

type BrandReader interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Brand, error)
}

type PartReader interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Part, error)
}

// CatalogService serves brand and part listings through a read-through cache.
type CatalogService struct {
	brands BrandReader
	parts  PartReader
	cache  cache.CatalogCache
	ttl    time.Duration
	sfg    singleflight.Group // collapses concurrent misses per key
}

func NewCatalogService(brands BrandReader, parts PartReader, c cache.CatalogCache, ttl time.Duration) *CatalogService {
	if c == nil {
		c = cache.Noop{}
	}
	return &CatalogService{brands: brands, parts: parts, cache: c, ttl: ttl}
}

func (s *CatalogService) Brands(ctx context.Context) ([]models.Brand, error) {
	return readThrough(ctx, s, brandsCacheKey, func(ctx context.Context) ([]models.Brand, error) {
		return s.brands.Find(ctx, nil, options.Find().SetSort(bson.D{{Key: "Name", Value: 1}}))
	})
}

// Parts lists the catalog. A keyword or filter skips the cache and queries
// directly.
func (s *CatalogService) Parts(ctx context.Context, keyword string, filter bson.M) ([]models.Part, error) {
	if keyword == "" && len(filter) == 0 {
		return readThrough(ctx, s, partsCacheKey, func(ctx context.Context) ([]models.Part, error) {
			return s.parts.Find(ctx, nil)
		})
	}
	return s.parts.Find(ctx, SearchFilter(keyword, filter))
}

// Invalidate drops cached listings after a catalog write.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, brandsCacheKey, partsCacheKey); err != nil {
		log.Printf("[CATALOG] [WARN] cache invalidation failed: %v", err)
	}
}

// SearchFilter matches keyword case-insensitively against the part name and
// brand, on top of any equality filters.
func SearchFilter(keyword string, filter bson.M) bson.M {
	out := bson.M{}
	for k, v := range filter {
		out[k] = v
	}
	if keyword != "" {
		pattern := regexp.QuoteMeta(keyword)
		out["$or"] = []bson.M{
			{"Part": bson.M{"$regex": pattern, "$options": "i"}},
			{"Brand": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	return out
}

func readThrough[T any](ctx context.Context, s *CatalogService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	ch := s.sfg.DoChan(key, func() (interface{}, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		cached, err := s.cache.Get(fillCtx, key)
		if err == nil {
			var items []T
			if err := json.Unmarshal(cached, &items); err == nil {
				return items, nil
			}
			log.Printf("[CATALOG] [WARN] discarding unreadable cache entry %s", key)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("[CATALOG] [WARN] cache get %s failed: %v", key, err)
		}

		items, err := load(fillCtx)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(fillCtx, key, payload, s.ttl); err != nil {
				log.Printf("[CATALOG] [WARN] cache set %s failed: %v", key, err)
			}
		}
		return items, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	items := res.Val.([]T)
	if items == nil {
		items = []T{}
	}
	return items, nil
}
