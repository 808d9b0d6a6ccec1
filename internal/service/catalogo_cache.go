package service

import (
	"context"
	"encoding/json"
	"time"

	"barberia/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogoCacheKey = "catalogo:servicios"
	catalogoCacheTTL = 30 * time.Minute
)

// catalogoCache holds the public list of active services. A nil client turns
// every call into a miss.
type catalogoCache struct {
	rdb redis.Cmdable
}

func (c catalogoCache) obtener(ctx context.Context) ([]dto.ServicioResponse, bool) {
	if c.rdb == nil {
		return nil, false
	}
	cached, err := c.rdb.Get(ctx, catalogoCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var resp []dto.ServicioResponse
	if err := json.Unmarshal(cached, &resp); err != nil {
		return nil, false
	}
	return resp, true
}

// guardar populates the cache, best effort.
func (c catalogoCache) guardar(ctx context.Context, resp []dto.ServicioResponse) {
	if c.rdb == nil {
		return
	}
	if b, err := json.Marshal(resp); err == nil {
		_ = c.rdb.Set(ctx, catalogoCacheKey, b, catalogoCacheTTL).Err()
	}
}

func (c catalogoCache) invalidar(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar el catalogo en cache")
	}
}
