package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/open-egypt/pricing-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestIncrementReturnsPostIncrementCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	keyID := uuid.New()
	bucket := models.HourBucketFor(time.Date(2026, 8, 31, 14, 25, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := repo.Increment(ctx, keyID, bucket)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := repo.Increment(ctx, keyID, bucket)
	require.NoError(t, err)
	require.Equal(t, int64(2), second)
}

func TestIncrementSeparateBucketsAndKeys(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	keyA := uuid.New()
	keyB := uuid.New()
	hour1 := models.HourBucketFor(time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC))
	hour2 := models.HourBucketFor(time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC))
	ctx := context.Background()

	count, err := repo.Increment(ctx, keyA, hour1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// A new hour and a different key both start fresh.
	count, err = repo.Increment(ctx, keyA, hour2)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	count, err = repo.Increment(ctx, keyB, hour1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestIncrementConcurrentCallsNeverShareACount(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	keyID := uuid.New()
	bucket := models.HourBucketFor(time.Now())
	ctx := context.Background()

	const n = 20

	var wg sync.WaitGroup
	counts := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count, err := repo.Increment(ctx, keyID, bucket)
			if err == nil {
				counts <- count
			}
		}()
	}
	wg.Wait()
	close(counts)

	seen := make(map[int64]bool)
	total := 0
	for c := range counts {
		require.False(t, seen[c], "count %d returned twice", c)
		seen[c] = true
		total++
	}
	require.Equal(t, n, total)

	final, err := repo.TotalByKey(ctx, keyID, bucket, bucket.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(n), final)
}

func TestSeriesByKeyOrderedOldestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewUsageRepository(db)

	keyID := uuid.New()
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	for h := 2; h >= 0; h-- {
		bucket := base.Add(time.Duration(h) * time.Hour)
		for i := 0; i <= h; i++ {
			_, err := repo.Increment(ctx, keyID, bucket)
			require.NoError(t, err)
		}
	}

	series, err := repo.SeriesByKey(ctx, keyID, base, base.Add(3*time.Hour))

	require.NoError(t, err)
	require.Len(t, series, 3)
	require.Equal(t, int64(1), series[0].Count)
	require.Equal(t, int64(2), series[1].Count)
	require.Equal(t, int64(3), series[2].Count)
}

func TestHourBucketForTruncatesToUTCHour(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)
	ts := time.Date(2026, 8, 31, 16, 45, 30, 0, cairo)

	bucket := models.HourBucketFor(ts)

	require.Equal(t, time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC), bucket)
}
