package repositories

import (
	"github.com/govind-gojiya/blog-backend/internal/models"
	"gorm.io/gorm"
)

// TagRepository defines the interface for the generic tag relation. Tagged
// entities are addressed by (kind, id) pairs.
type TagRepository interface {
	TagEntity(label string, kind models.EntityKind, entityID uint) (*models.Tag, error)
	UntagEntity(label string, kind models.EntityKind, entityID uint) error
	GetTagsFor(kind models.EntityKind, entityID uint) ([]models.Tag, error)
}

// PostgresTagRepository implements TagRepository
type PostgresTagRepository struct {
	db *gorm.DB
}

func NewPostgresTagRepository(db *gorm.DB) *PostgresTagRepository {
	return &PostgresTagRepository{db: db}
}

// TagEntity attaches a tag (created on first use) to an entity. Tagging the
// same entity twice with the same label is a conflict.
func (r *PostgresTagRepository) TagEntity(label string, kind models.EntityKind, entityID uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where(models.Tag{Label: label}).FirstOrCreate(&tag).Error; err != nil {
		return nil, err
	}

	var count int64
	if err := r.db.Model(&models.TaggedItem{}).
		Where("tag_id = ? AND entity_kind = ? AND entity_id = ?", tag.ID, kind, entityID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyTagged
	}

	item := models.TaggedItem{TagID: tag.ID, EntityKind: kind, EntityID: entityID}
	if err := r.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// UntagEntity removes a tag from an entity
func (r *PostgresTagRepository) UntagEntity(label string, kind models.EntityKind, entityID uint) error {
	var tag models.Tag
	if err := r.db.Where("label = ?", label).First(&tag).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	res := r.db.Where("tag_id = ? AND entity_kind = ? AND entity_id = ?", tag.ID, kind, entityID).Delete(&models.TaggedItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTagsFor returns all tags attached to an entity
func (r *PostgresTagRepository) GetTagsFor(kind models.EntityKind, entityID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Model(&models.Tag{}).
		Joins("JOIN tagged_items ON tagged_items.tag_id = tags.id").
		Where("tagged_items.entity_kind = ? AND tagged_items.entity_id = ?", kind, entityID).
		Order("tags.label").
		Find(&tags).Error
	return tags, err
}
