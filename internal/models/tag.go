package models

// EntityKind names a taggable entity type. Tagged items address their
// target by (kind, id) instead of a reflective content-type lookup.
type EntityKind string

const (
	EntityKindPost EntityKind = "post"
	EntityKindUser EntityKind = "user"
)

// Tag is a reusable label
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Label string `json:"label" gorm:"size:255;uniqueIndex"`
}

// TaggedItem attaches a tag to any taggable entity
type TaggedItem struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	TagID      uint       `json:"tag_id" gorm:"uniqueIndex:idx_tag_entity"`
	Tag        Tag        `json:"-"`
	EntityKind EntityKind `json:"entity_kind" gorm:"size:20;uniqueIndex:idx_tag_entity"`
	EntityID   uint       `json:"entity_id" gorm:"uniqueIndex:idx_tag_entity"`
}

// TagRequest defines the request body for tagging an entity
type TagRequest struct {
	Label string `json:"label" validate:"required,min=1,max=255"`
}
