package models

// ScoreBreakdown holds the named sub-scores behind a phrase's quality score.
// Booster fields stay zero when external lookups were skipped; BoosterError
// records why a lookup degraded to zero.
type ScoreBreakdown struct {
	Lexical      int    `json:"lexical"`
	Category     int    `json:"category"`
	Wikipedia    int    `json:"wikipedia,omitempty"`
	Reddit       int    `json:"reddit,omitempty"`
	BoosterError string `json:"booster_error,omitempty"`
}

// GeneratedPhraseModel is one accepted candidate from the generation pipeline.
// Normalized carries the lowercased text and its unique index enforces global
// case-insensitive uniqueness across all categories.
type GeneratedPhraseModel struct {
	Base
	Text       string         `json:"text"                 gorm:"not null"`
	Normalized string         `json:"-"                    gorm:"uniqueIndex;not null"`
	Category   string         `json:"category"             gorm:"index;not null"`
	Source     string         `json:"source"               gorm:"type:varchar(32)"`
	Score      int            `json:"score"`
	Breakdown  ScoreBreakdown `json:"breakdown"            gorm:"type:longtext;serializer:json"`
	Difficulty string         `json:"difficulty,omitempty" gorm:"type:varchar(8)"`
}

func (GeneratedPhraseModel) TableName() string { return "generated_phrases" }
