// Package quota tracks the rolling daily counter of generation attempts.
package quota

import (
	"errors"
	"time"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger enforces the hard daily cap on generation attempts. The day
// rollover is lazy: reads of a stale row treat the full limit as remaining
// and the next RecordAttempt creates the fresh row.
type Ledger struct {
	db       *gorm.DB
	limit    int
	failOpen bool
	log      *zap.Logger
	now      func() time.Time
}

func NewLedger(db *gorm.DB, limit int, failOpen bool, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{db: db, limit: limit, failOpen: failOpen, log: log.Named("quota"), now: time.Now}
}

// Limit returns the configured daily cap.
func (l *Ledger) Limit() int { return l.limit }

func (l *Ledger) today() string { return l.now().Format("2006-01-02") }

// CanMakeRequest reports whether another generation attempt is admitted
// today and how many attempts remain. When the ledger cannot be read the
// fail-open flag decides: permissive keeps generation alive through a
// storage outage, strict refuses.
func (l *Ledger) CanMakeRequest() (bool, int) {
	count, err := l.todayCount()
	if err != nil {
		l.log.Warn("quota read failed", zap.Error(err), zap.Bool("fail_open", l.failOpen))
		if l.failOpen {
			return true, l.limit
		}
		return false, 0
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining > 0, remaining
}

// RecordAttempt increments today's counter, creating a fresh entry if the
// date rolled over. An attempt consumes quota whether or not the provider
// call it covers ends up succeeding.
func (l *Ledger) RecordAttempt() error {
	day := l.today()

	res := l.db.Model(&models.QuotaEntryModel{}).
		Where("day = ?", day).
		UpdateColumn("count", gorm.Expr("count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	entry := models.QuotaEntryModel{Day: day, Count: 1}
	if err := l.db.Create(&entry).Error; err != nil {
		// Lost the create race to a concurrent batch; fall back to increment.
		res := l.db.Model(&models.QuotaEntryModel{}).
			Where("day = ?", day).
			UpdateColumn("count", gorm.Expr("count + 1"))
		if res.Error != nil || res.RowsAffected == 0 {
			return err
		}
	}
	return nil
}

// PurgeBefore deletes ledger rows older than the cutoff day (YYYY-MM-DD).
func (l *Ledger) PurgeBefore(day string) (int64, error) {
	res := l.db.Unscoped().Where("day < ?", day).Delete(&models.QuotaEntryModel{})
	return res.RowsAffected, res.Error
}

func (l *Ledger) todayCount() (int, error) {
	var entry models.QuotaEntryModel
	err := l.db.Where("day = ?", l.today()).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entry.Count, nil
}
