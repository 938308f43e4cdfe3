package models

// Collection groups posts under a label. A collection cannot be deleted
// while posts still reference it.
type Collection struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Label string `json:"label" gorm:"size:255"`
}

// CreateCollectionRequest defines the request body for creating a collection
type CreateCollectionRequest struct {
	Label string `json:"label" validate:"required,min=1,max=255"`
}
