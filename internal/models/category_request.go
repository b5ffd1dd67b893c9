package models

// RequestStatus is the lifecycle state of a category request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusConfirmed RequestStatus = "confirmed"
	RequestStatusGenerated RequestStatus = "generated"
	RequestStatusFailed    RequestStatus = "failed"
)

// CanTransition reports whether moving from s to next is a legal step.
// Terminal states never transition out.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return next == RequestStatusConfirmed || next == RequestStatusFailed
	case RequestStatusConfirmed:
		return next == RequestStatusGenerated || next == RequestStatusFailed
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusGenerated || s == RequestStatusFailed
}

// CategoryRequestModel is one generation request per distinct category name.
// The ID is derived deterministically from the normalized slug so that
// re-requesting the same category reuses the record.
type CategoryRequestModel struct {
	Base
	Name           string        `json:"name"            gorm:"uniqueIndex;not null"`
	Slug           string        `json:"slug"            gorm:"uniqueIndex;not null"`
	SampleWords    StringArray   `json:"sample_words"    gorm:"type:longtext;serializer:json"`
	GeneratedCount int           `json:"generated_count" gorm:"default:0"`
	Status         RequestStatus `json:"status"          gorm:"type:varchar(16);default:'pending'"`
	Error          string        `json:"error,omitempty" gorm:"type:text"`
	Description    string        `json:"description,omitempty"`
	Tags           StringArray   `json:"tags,omitempty"  gorm:"type:longtext;serializer:json"`
}

func (CategoryRequestModel) TableName() string { return "category_requests" }
