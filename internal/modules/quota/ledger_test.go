package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
)

func setupLedger(t *testing.T, limit int) *Ledger {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.QuotaEntryModel{}))
	return NewLedger(db, limit, true, nil)
}

func TestFreshDayHasFullQuota(t *testing.T) {
	l := setupLedger(t, 15)
	allowed, remaining := l.CanMakeRequest()
	require.True(t, allowed)
	require.Equal(t, 15, remaining)
	require.Equal(t, 15, l.Limit())
}

func TestRemainingDecreasesMonotonically(t *testing.T) {
	l := setupLedger(t, 3)

	prev := 3
	for i := 0; i < 3; i++ {
		require.NoError(t, l.RecordAttempt())
		_, remaining := l.CanMakeRequest()
		require.Less(t, remaining, prev)
		prev = remaining
	}

	allowed, remaining := l.CanMakeRequest()
	require.False(t, allowed)
	require.Zero(t, remaining)

	// Over-recording never pushes remaining below zero.
	require.NoError(t, l.RecordAttempt())
	allowed, remaining = l.CanMakeRequest()
	require.False(t, allowed)
	require.Zero(t, remaining)
}

func TestDayRolloverResetsQuota(t *testing.T) {
	l := setupLedger(t, 2)
	base := time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	require.NoError(t, l.RecordAttempt())
	require.NoError(t, l.RecordAttempt())
	allowed, _ := l.CanMakeRequest()
	require.False(t, allowed)

	// Crossing midnight lazily resets the counter.
	l.now = func() time.Time { return base.Add(time.Hour) }
	allowed, remaining := l.CanMakeRequest()
	require.True(t, allowed)
	require.Equal(t, 2, remaining)

	require.NoError(t, l.RecordAttempt())
	_, remaining = l.CanMakeRequest()
	require.Equal(t, 1, remaining)
}

func TestReadFailurePolicy(t *testing.T) {
	breakDB := func(t *testing.T, l *Ledger) {
		t.Helper()
		sqlDB, err := l.db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())
	}

	t.Run("fail open admits at full limit", func(t *testing.T) {
		l := setupLedger(t, 15)
		breakDB(t, l)
		allowed, remaining := l.CanMakeRequest()
		require.True(t, allowed)
		require.Equal(t, 15, remaining)
	})

	t.Run("strict denies", func(t *testing.T) {
		l := setupLedger(t, 15)
		l.failOpen = false
		breakDB(t, l)
		allowed, remaining := l.CanMakeRequest()
		require.False(t, allowed)
		require.Zero(t, remaining)
	})
}

func TestPurgeBefore(t *testing.T) {
	l := setupLedger(t, 5)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.now = func() time.Time { return base.AddDate(0, 0, -40) }
	require.NoError(t, l.RecordAttempt())
	l.now = func() time.Time { return base }
	require.NoError(t, l.RecordAttempt())

	purged, err := l.PurgeBefore(base.AddDate(0, 0, -30).Format("2006-01-02"))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	// Today's row survives.
	_, remaining := l.CanMakeRequest()
	require.Equal(t, 4, remaining)
}
