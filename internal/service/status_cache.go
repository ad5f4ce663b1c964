package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"homeclean-be/internal/dto"
	"homeclean-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Display reads tolerate a short staleness window; writes invalidate.
const statusCacheTTL = 30 * time.Second

// StatusCache keeps the reservation status projection in Redis so list and
// detail screens do not hit Postgres on every poll.
type StatusCache struct {
	client *redis.Client
	logger logger.ILogger
}

func NewStatusCache(client *redis.Client, sysLogger logger.ILogger) *StatusCache {
	return &StatusCache{client: client, logger: sysLogger}
}

func statusKey(reservationId uuid.UUID) string {
	return fmt.Sprintf("reservation:status:%s", reservationId.String())
}

func (c *StatusCache) Get(ctx context.Context, reservationId uuid.UUID) (*dto.ReservationStatusResponse, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, statusKey(reservationId)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("CACHE", "Status cache read failed", map[string]interface{}{
				"reservationId": reservationId.String(), "error": err.Error(),
			})
		}
		return nil, false
	}
	var resp dto.ReservationStatusResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *StatusCache) Set(ctx context.Context, resp *dto.ReservationStatusResponse) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statusKey(resp.ReservationId), raw, statusCacheTTL).Err(); err != nil {
		c.logger.Warn("CACHE", "Status cache write failed", map[string]interface{}{
			"reservationId": resp.ReservationId.String(), "error": err.Error(),
		})
	}
}

func (c *StatusCache) Invalidate(ctx context.Context, reservationId uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statusKey(reservationId)).Err(); err != nil {
		c.logger.Warn("CACHE", "Status cache invalidation failed", map[string]interface{}{
			"reservationId": reservationId.String(), "error": err.Error(),
		})
	}
}
