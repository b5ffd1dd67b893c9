package models

// QuotaEntryModel is the daily generation-attempt counter, one row per
// calendar day. The date rollover is lazy: a fresh row is created on the
// first attempt of a new day.
type QuotaEntryModel struct {
	Base
	Day   string `json:"day"   gorm:"uniqueIndex;type:char(10);not null"` // YYYY-MM-DD
	Count int    `json:"count" gorm:"default:0"`
}

func (QuotaEntryModel) TableName() string { return "quota_entries" }
