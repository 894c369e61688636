package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/course-scheduler-api/pkg/errors"
)

type cachedPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	var dest cachedPayload

	assert.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(context.Background(), "k", cachedPayload{}, time.Minute))
	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, repo.Close())
}

func TestLocalCacheRepositoryRoundTrip(t *testing.T) {
	repo := NewLocalCacheRepository(time.Minute, time.Minute)
	ctx := context.Background()

	var dest cachedPayload
	assert.ErrorIs(t, repo.Get(ctx, "missing", &dest), appErrors.ErrCacheMiss)

	value := cachedPayload{Name: "schedule", Count: 2}
	require.NoError(t, repo.Set(ctx, "k", value, 0))
	value.Count = 99

	require.NoError(t, repo.Get(ctx, "k", &dest))
	assert.Equal(t, cachedPayload{Name: "schedule", Count: 2}, dest)
	assert.Equal(t, 1, repo.Len())
}

func TestLocalCacheRepositoryExpiry(t *testing.T) {
	repo := NewLocalCacheRepository(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "short", cachedPayload{Name: "x"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var dest cachedPayload
	assert.ErrorIs(t, repo.Get(ctx, "short", &dest), appErrors.ErrCacheMiss)
}
