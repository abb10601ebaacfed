package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"evently/internal/common/logger"
	"evently/internal/models"
)

const vendorCacheTTL = 5 * time.Minute

// CachedStore adds a Redis read-through cache in front of vendor
// lookups. Cache failures degrade to the database silently.
type CachedStore struct {
	*Store
	redis  *redis.Client
	logger logger.Logger
}

func NewCachedStore(store *Store, rdb *redis.Client, log logger.Logger) *CachedStore {
	return &CachedStore{
		Store:  store,
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-cache"}),
	}
}

func vendorKey(id string) string {
	return "vendor:" + id
}

// GetVendor serves from cache when possible, falling back to Postgres
// and repopulating on a miss.
func (c *CachedStore) GetVendor(ctx context.Context, id string) (*models.Vendor, error) {
	if val, err := c.redis.Get(ctx, vendorKey(id)).Result(); err == nil {
		var v models.Vendor
		if err := json.Unmarshal([]byte(val), &v); err == nil {
			return &v, nil
		}
	}

	v, err := c.Store.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(v); err == nil {
		if err := c.redis.Set(ctx, vendorKey(id), data, vendorCacheTTL).Err(); err != nil {
			c.logger.Debug("vendor cache set failed", map[string]interface{}{
				"vendorId": id,
				"error":    err.Error(),
			})
		}
	}
	return v, nil
}

// Invalidate drops a vendor from the cache after an admin update.
func (c *CachedStore) Invalidate(ctx context.Context, id string) {
	if err := c.redis.Del(ctx, vendorKey(id)).Err(); err != nil {
		c.logger.Debug("vendor cache invalidation failed", map[string]interface{}{
			"vendorId": id,
			"error":    err.Error(),
		})
	}
}
