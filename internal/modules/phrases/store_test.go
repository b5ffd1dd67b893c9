package phrases

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.CategoryRequestModel{},
		&models.GeneratedPhraseModel{},
		&models.QuotaEntryModel{},
	))
	return NewStore(db)
}

func phraseRow(text, category string, score int) models.GeneratedPhraseModel {
	return models.GeneratedPhraseModel{
		Text:     text,
		Category: category,
		Source:   "test",
		Score:    score,
	}
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "kitchen-items", Slugify("Kitchen Items"))
	require.Equal(t, "food-drink", Slugify("  Food & Drink! "))
	require.Equal(t, "", Slugify("!!!"))
}

func TestEnsureRequestIsIdempotent(t *testing.T) {
	s := setupStore(t)

	first, err := s.EnsureRequest("Kitchen Items", "stuff in a kitchen", []string{"home"})
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusPending, first.Status)
	require.Equal(t, "kitchen-items", first.Slug)

	second, err := s.EnsureRequest("Kitchen Items", "", nil)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Same slug resolves to the same record no matter how the name is cased.
	require.Equal(t, RequestID("kitchen-items"), first.ID)
}

func TestTransitionGuard(t *testing.T) {
	s := setupStore(t)
	req, err := s.EnsureRequest("Board Games", "", nil)
	require.NoError(t, err)

	// Skipping confirmation is not allowed.
	require.Error(t, s.Transition(req, models.RequestStatusGenerated, ""))

	require.NoError(t, s.Transition(req, models.RequestStatusConfirmed, ""))
	require.NoError(t, s.Transition(req, models.RequestStatusGenerated, ""))

	// Terminal states accept no further moves.
	require.Error(t, s.Transition(req, models.RequestStatusFailed, "late"))

	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusGenerated, got.Status)
}

func TestSavePhrasesGlobalUniqueness(t *testing.T) {
	s := setupStore(t)

	inserted, err := s.SavePhrases([]models.GeneratedPhraseModel{
		phraseRow("Coffee Maker", "Kitchen Items", 30),
		phraseRow("Toaster", "Kitchen Items", 25),
	})
	require.NoError(t, err)
	require.Equal(t, 2, inserted)

	// Case-insensitive duplicates are skipped even across categories.
	inserted, err = s.SavePhrases([]models.GeneratedPhraseModel{
		phraseRow("COFFEE MAKER", "Morning Routine", 40),
		phraseRow("Blender", "Kitchen Items", 20),
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)

	all, err := s.GetAllPhrases()
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestGetPhrasesByCategoryRanked(t *testing.T) {
	s := setupStore(t)
	_, err := s.SavePhrases([]models.GeneratedPhraseModel{
		phraseRow("Toaster", "Kitchen Items", 25),
		phraseRow("Coffee Maker", "Kitchen Items", 30),
		phraseRow("Road Trip", "Travel", 45),
	})
	require.NoError(t, err)

	texts, err := s.GetPhrasesByCategory("Kitchen Items")
	require.NoError(t, err)
	require.Equal(t, []string{"Coffee Maker", "Toaster"}, texts)

	names, err := s.GetAllCategoryNames()
	require.NoError(t, err)
	require.Equal(t, []string{"Kitchen Items", "Travel"}, names)
}

func TestDeleteCategory(t *testing.T) {
	s := setupStore(t)

	// Deleting something that never existed is a no-op.
	require.NoError(t, s.DeleteCategory("Ghosts"))

	req, err := s.EnsureRequest("Kitchen Items", "", nil)
	require.NoError(t, err)
	_, err = s.SavePhrases([]models.GeneratedPhraseModel{
		phraseRow("Coffee Maker", "Kitchen Items", 30),
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory("Kitchen Items"))

	_, err = s.GetRequest(req.ID)
	require.ErrorIs(t, err, ErrRequestNotFound)

	// The normalized slot is freed for future generation.
	inserted, err := s.SavePhrases([]models.GeneratedPhraseModel{
		phraseRow("coffee maker", "Morning Routine", 20),
	})
	require.NoError(t, err)
	require.Equal(t, 1, inserted)
}

func TestCorpusTexts(t *testing.T) {
	s := setupStore(t)
	_, err := s.SavePhrases([]models.GeneratedPhraseModel{
		phraseRow("Coffee Maker", "Kitchen Items", 30),
	})
	require.NoError(t, err)

	texts, err := s.CorpusTexts()
	require.NoError(t, err)
	require.Equal(t, []string{"coffee maker"}, texts)
}
