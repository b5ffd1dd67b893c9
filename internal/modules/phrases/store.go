package phrases

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jamespheffernan/words-on-phone-server/internal/models"
	"github.com/jamespheffernan/words-on-phone-server/internal/modules/dedupe"
)

// Store is the sole writer of durable pipeline state: category requests and
// generated phrases.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the category name and collapses every non-alphanumeric
// run into a single dash.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// RequestID derives a stable identifier from the category slug so repeated
// requests for the same category map onto one record.
func RequestID(slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("category-request:"+slug)).String()
}

// EnsureRequest returns the request record for the category, creating a
// pending one on first sight.
func (s *Store) EnsureRequest(name, description string, tags []string) (*models.CategoryRequestModel, error) {
	slug := Slugify(name)
	if slug == "" {
		return nil, errors.New("category name is empty after normalization")
	}

	req := models.CategoryRequestModel{
		Base:        models.Base{ID: RequestID(slug)},
		Name:        strings.TrimSpace(name),
		Slug:        slug,
		Status:      models.RequestStatusPending,
		Description: description,
		Tags:        tags,
	}
	err := s.db.Where("id = ?", req.ID).FirstOrCreate(&req).Error
	if err != nil {
		return nil, fmt.Errorf("ensure category request: %w", err)
	}
	return &req, nil
}

func (s *Store) GetRequest(id string) (*models.CategoryRequestModel, error) {
	var req models.CategoryRequestModel
	err := s.db.Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) GetRequestBySlug(slug string) (*models.CategoryRequestModel, error) {
	return s.GetRequest(RequestID(slug))
}

// SaveRequest persists field changes that do not move the lifecycle state.
func (s *Store) SaveRequest(req *models.CategoryRequestModel) error {
	return s.db.Save(req).Error
}

// Transition moves the request to the next lifecycle state, rejecting moves
// the state machine does not allow, and persists the result.
func (s *Store) Transition(req *models.CategoryRequestModel, next models.RequestStatus, errMsg string) error {
	if !req.Status.CanTransition(next) {
		return fmt.Errorf("illegal status transition %s -> %s for request %s", req.Status, next, req.ID)
	}
	req.Status = next
	req.Error = errMsg
	return s.db.Model(req).Updates(map[string]any{
		"status": string(next),
		"error":  errMsg,
	}).Error
}

// SavePhrases inserts the batch, silently skipping rows whose normalized text
// already exists. Returns how many rows were actually inserted.
func (s *Store) SavePhrases(phrases []models.GeneratedPhraseModel) (int, error) {
	if len(phrases) == 0 {
		return 0, nil
	}
	for i := range phrases {
		phrases[i].Normalized = dedupe.Normalize(phrases[i].Text)
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "normalized"}},
		DoNothing: true,
	}).Create(&phrases)
	if res.Error != nil {
		return 0, fmt.Errorf("save phrases: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

// PhrasesQuery returns the base query for listing phrases, best first.
func (s *Store) PhrasesQuery() *gorm.DB {
	return s.db.Model(&models.GeneratedPhraseModel{}).Order("score DESC, created_at ASC")
}

func (s *Store) GetAllPhrases() ([]models.GeneratedPhraseModel, error) {
	var out []models.GeneratedPhraseModel
	err := s.db.Order("score DESC, created_at ASC").Find(&out).Error
	return out, err
}

// GetPhrasesByCategory returns the phrase texts of one category, best first.
func (s *Store) GetPhrasesByCategory(name string) ([]string, error) {
	var texts []string
	err := s.db.Model(&models.GeneratedPhraseModel{}).
		Where("category = ?", strings.TrimSpace(name)).
		Order("score DESC, created_at ASC").
		Pluck("text", &texts).Error
	return texts, err
}

func (s *Store) GetAllCategoryNames() ([]string, error) {
	var names []string
	err := s.db.Model(&models.GeneratedPhraseModel{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &names).Error
	return names, err
}

// DeleteCategory removes a category's phrases and its request record. Hard
// deletes, so the normalized unique index frees the texts for regeneration.
// Deleting a category that does not exist is a no-op.
func (s *Store) DeleteCategory(name string) error {
	name = strings.TrimSpace(name)
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("category = ?", name).
			Delete(&models.GeneratedPhraseModel{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().
			Where("id = ?", RequestID(Slugify(name))).
			Delete(&models.CategoryRequestModel{}).Error
	})
}

// CorpusTexts returns the normalized text of every persisted phrase, used to
// seed the deduplication corpus.
func (s *Store) CorpusTexts() ([]string, error) {
	var texts []string
	err := s.db.Model(&models.GeneratedPhraseModel{}).
		Pluck("normalized", &texts).Error
	return texts, err
}
