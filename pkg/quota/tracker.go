package quota

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for quota accounting.
var (
	quotaUnitsUsed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "youtube_quota_units_used",
		Help: "Quota units recorded for the current Pacific-time day",
	})

	quotaUnitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youtube_quota_units_total",
		Help: "Total quota units recorded by resource",
	}, []string{"resource"})
)

// keyTTL keeps a day's counter around after the reset for inspection.
const keyTTL = 48 * time.Hour

// Tracker records quota units in Redis.
type Tracker struct {
	redis  *redis.Client
	logger zerolog.Logger
	keyID  string
	limit  int64
	now    func() time.Time
}

// NewTracker creates a tracker for one API key. The key itself is never
// stored; counters are namespaced by a short hash of it.
func NewTracker(redisClient *redis.Client, apiKey string, dailyLimit int64, logger zerolog.Logger) *Tracker {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyLimit
	}
	sum := sha256.Sum256([]byte(apiKey))
	return &Tracker{
		redis:  redisClient,
		logger: logger,
		keyID:  hex.EncodeToString(sum[:6]),
		limit:  dailyLimit,
		now:    time.Now,
	}
}

// redisKey returns the counter key for day.
func (t *Tracker) redisKey(day string) string {
	return fmt.Sprintf("yt:quota:%s:%s", t.keyID, day)
}

// Record adds the cost of one request on resource to today's counter.
func (t *Tracker) Record(ctx context.Context, resource string) (Usage, error) {
	units := Cost(resource)
	day := Day(t.now())
	key := t.redisKey(day)

	pipe := t.redis.TxPipeline()
	incr := pipe.IncrBy(ctx, key, int64(units))
	pipe.Expire(ctx, key, keyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return Usage{}, fmt.Errorf("record quota units: %w", err)
	}

	usage := Usage{Day: day, Used: incr.Val(), Limit: t.limit}
	quotaUnitsUsed.Set(float64(usage.Used))
	quotaUnitsTotal.WithLabelValues(resource).Add(float64(units))

	switch {
	case usage.Exhausted():
		t.logger.Error().
			Int64("used", usage.Used).
			Int64("limit", usage.Limit).
			Time("reset_at", ResetAt(t.now())).
			Msg("Daily quota exhausted")
	case usage.NearLimit():
		t.logger.Warn().
			Int64("used", usage.Used).
			Int64("remaining", usage.Remaining()).
			Msg("Daily quota nearly used")
	default:
		t.logger.Debug().
			Str("resource", resource).
			Int("units", units).
			Int64("used", usage.Used).
			Msg("Quota units recorded")
	}

	return usage, nil
}

// Usage returns today's recorded usage. A day without requests reports zero.
func (t *Tracker) Usage(ctx context.Context) (Usage, error) {
	day := Day(t.now())
	used, err := t.redis.Get(ctx, t.redisKey(day)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Usage{}, fmt.Errorf("get quota usage: %w", err)
	}
	return Usage{Day: day, Used: used, Limit: t.limit}, nil
}
