package phrases

// PreviewCategoryDTO is the request body for a category preview.
type PreviewCategoryDTO struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// GenerateCategoryDTO is the optional request body for a generation run.
type GenerateCategoryDTO struct {
	TargetCount int `json:"target_count"`
}

type quotaStatusResponse struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

type categoryPhrasesResponse struct {
	Category string   `json:"category"`
	Phrases  []string `json:"phrases"`
}
