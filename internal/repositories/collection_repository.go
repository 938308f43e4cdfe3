package repositories

import (
	"errors"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"gorm.io/gorm"
)

// CollectionRepository defines the interface for collection operations
type CollectionRepository interface {
	CreateCollection(collection *models.Collection) error
	GetCollectionByID(id uint) (*models.Collection, error)
	ListCollections() ([]models.Collection, error)
	DeleteCollection(id uint) error
}

// PostgresCollectionRepository implements CollectionRepository
type PostgresCollectionRepository struct {
	db *gorm.DB
}

func NewPostgresCollectionRepository(db *gorm.DB) *PostgresCollectionRepository {
	return &PostgresCollectionRepository{db: db}
}

// CreateCollection creates a new collection
func (r *PostgresCollectionRepository) CreateCollection(collection *models.Collection) error {
	return r.db.Create(collection).Error
}

// GetCollectionByID retrieves a collection by ID
func (r *PostgresCollectionRepository) GetCollectionByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	if err := r.db.First(&collection, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &collection, nil
}

// ListCollections returns all collections in label order
func (r *PostgresCollectionRepository) ListCollections() ([]models.Collection, error) {
	var collections []models.Collection
	err := r.db.Order("label").Find(&collections).Error
	return collections, err
}

// DeleteCollection deletes a collection. A collection still referenced by
// posts is delete-protected.
func (r *PostgresCollectionRepository) DeleteCollection(id uint) error {
	// Soft-deleted posts still reference the collection, so they protect it too.
	var referenced int64
	if err := r.db.Unscoped().Model(&models.Post{}).Where("collection_id = ?", id).Count(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		return ErrCollectionInUse
	}

	res := r.db.Delete(&models.Collection{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
