// internal/workers/dialogue/process-template/handler_test.go
package processtemplate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dialogue-workers/internal/catalog"
	"dialogue-workers/internal/common/logger"
)

func testStore() *catalog.Store {
	rules := []catalog.DependencyRule{
		{
			Domain: "weather",
			Intent: "query",
			Slots: map[string][]string{
				"city": {"北京", "上海"},
				"date": {"今天", "明天"},
			},
		},
	}
	return catalog.NewStore(catalog.New(rules, nil))
}

func testRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestHandler(t *testing.T, rdb *redis.Client) *Handler {
	return NewHandler(LoadConfig(), testStore(), rdb, logger.NewTestLogger(t))
}

func TestHandler_Execute_Success(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{
		Domain: "weather",
		Intent: "query",
		Slots:  map[string]string{"city": "北京", "date": "今天"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Code)
	assert.Equal(t, "验证成功", out.Message)
	require.NotNil(t, out.Data)
	assert.Equal(t, "验证成功", out.Data.Content)
}

func TestHandler_Execute_ComposedMissingSlots(t *testing.T) {
	h := newTestHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{
		Domain: "weather",
		Intent: "query",
		Slots:  map[string]string{"city": "北京"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, out.Code)
	assert.Equal(t, "验证失败: lost_slots", out.Message)
	require.NotNil(t, out.Data)
	assert.Equal(t, "由于缺少以下槽位信息而导致无法查出date：今天、明天\n", out.Data.Content)
}

func TestHandler_Execute_CachesResponse(t *testing.T) {
	rdb := testRedis(t)
	h := newTestHandler(t, rdb)
	input := &Input{
		Domain: "weather",
		Intent: "query",
		Slots:  map[string]string{"city": "北京", "date": "今天"},
	}

	first, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	// Cached entry must exist under the hashed key with the 5 min TTL.
	key := h.cacheKey(input)
	val, err := rdb.Get(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Contains(t, val, "验证成功")

	ttl, err := rdb.TTL(context.Background(), key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 4*time.Minute)

	second, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHandler_Execute_CacheHitSkipsPipeline(t *testing.T) {
	rdb := testRedis(t)
	h := newTestHandler(t, rdb)
	input := &Input{Domain: "weather", Intent: "query"}

	// Seed a poisoned cache entry; a hit must be returned verbatim.
	seeded := `{"code":0,"message":"cached","data":{"content":"cached"}}`
	require.NoError(t, rdb.Set(context.Background(), h.cacheKey(input), seeded, time.Minute).Err())

	out, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "cached", out.Message)
}

func TestHandler_Execute_DeadCacheStillAnswers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := newTestHandler(t, rdb)
	mr.Close()

	out, err := h.Execute(context.Background(), &Input{
		Domain: "weather",
		Intent: "query",
		Slots:  map[string]string{"city": "北京", "date": "今天"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Code)
	assert.Equal(t, "验证成功", out.Data.Content)
}

func TestHandler_Execute_DistinctInputsDistinctKeys(t *testing.T) {
	h := newTestHandler(t, nil)

	a := h.cacheKey(&Input{Domain: "weather", Intent: "query"})
	b := h.cacheKey(&Input{Domain: "weather", Intent: "forecast"})

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "tpl:")
}
