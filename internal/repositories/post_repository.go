package repositories

import (
	"errors"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"gorm.io/gorm"
)

// PostQueryOptions carries the per-request feed parameters: viewer identity,
// free-text search over title/description, equality filters and the page to
// fetch. A zero CollectionID and nil Status/IsPrivate mean "no filter".
type PostQueryOptions struct {
	ViewerID     uint
	Search       string
	CollectionID uint
	Status       *models.PostStatus
	IsPrivate    *bool
	Page         int
	PageSize     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	GetVisiblePostByID(id, viewerID uint) (*models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(id uint) error
	ListPosts(opts PostQueryOptions) ([]models.Post, int64, error)
	ListOwnPosts(opts PostQueryOptions) ([]models.Post, int64, error)
	ListFollowingPosts(opts PostQueryOptions) ([]models.Post, int64, error)
	ListSavedPosts(opts PostQueryOptions) ([]models.Post, int64, error)
	ListVisiblePosts(viewerID uint) ([]models.Post, error)
	ToggleLike(postID, userID uint) (bool, error)
	HasUserLikedPost(postID, userID uint) (bool, error)
	GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// visibleTo restricts a post query to what the viewer is entitled to see:
// public posts, plus the viewer's own posts when authenticated.
func visibleTo(viewerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewerID == 0 {
			return db.Where("is_private = ?", false)
		}
		return db.Where("is_private = ? OR owner_id = ?", false, viewerID)
	}
}

// withFilters applies the search predicate and equality filters
func withFilters(opts PostQueryOptions) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if opts.Search != "" {
			pattern := "%" + opts.Search + "%"
			db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
		}
		if opts.CollectionID != 0 {
			db = db.Where("collection_id = ?", opts.CollectionID)
		}
		if opts.Status != nil {
			db = db.Where("status = ?", *opts.Status)
		}
		if opts.IsPrivate != nil {
			db = db.Where("is_private = ?", *opts.IsPrivate)
		}
		return db
	}
}

// CreatePost creates a new post
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Create(post).Error
}

// GetPostByID retrieves a post by ID regardless of visibility
func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Owner").Preload("Collection").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetVisiblePostByID retrieves a post by ID, restricted to what the viewer
// may see. Posts hidden from the viewer are indistinguishable from missing.
func (r *PostgresPostRepository) GetVisiblePostByID(id, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Scopes(visibleTo(viewerID)).Preload("Owner").Preload("Collection").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost persists changes to an existing post
func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost soft-deletes a post by ID
func (r *PostgresPostRepository) DeletePost(id uint) error {
	res := r.db.Delete(&models.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// listPage runs the count + page fetch over a filtered base query builder
func (r *PostgresPostRepository) listPage(base func() *gorm.DB, opts PostQueryOptions, order string) ([]models.Post, int64, error) {
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}

	var posts []models.Post
	err := base().
		Preload("Owner").Preload("Collection").
		Order(order).
		Offset((page - 1) * opts.PageSize).
		Limit(opts.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListPosts returns a page of the global feed: every post the viewer may see
func (r *PostgresPostRepository) ListPosts(opts PostQueryOptions) ([]models.Post, int64, error) {
	base := func() *gorm.DB {
		return r.db.Model(&models.Post{}).Scopes(visibleTo(opts.ViewerID), withFilters(opts))
	}
	return r.listPage(base, opts, "created_at DESC, updated_at DESC")
}

// ListOwnPosts returns a page of the viewer's own posts, all statuses and
// privacy states included
func (r *PostgresPostRepository) ListOwnPosts(opts PostQueryOptions) ([]models.Post, int64, error) {
	base := func() *gorm.DB {
		return r.db.Model(&models.Post{}).Where("owner_id = ?", opts.ViewerID).Scopes(withFilters(opts))
	}
	return r.listPage(base, opts, "created_at DESC, updated_at DESC")
}

// ListFollowingPosts returns a page of public posts authored by users the
// viewer follows
func (r *PostgresPostRepository) ListFollowingPosts(opts PostQueryOptions) ([]models.Post, int64, error) {
	base := func() *gorm.DB {
		followed := r.db.Table("follows").Select("following_id").Where("follower_id = ?", opts.ViewerID)
		return r.db.Model(&models.Post{}).
			Where("owner_id IN (?)", followed).
			Where("is_private = ?", false).
			Scopes(withFilters(opts))
	}
	return r.listPage(base, opts, "created_at DESC, updated_at DESC")
}

// ListSavedPosts returns a page of the viewer's saved posts, newest save
// first, still subject to the visibility rule
func (r *PostgresPostRepository) ListSavedPosts(opts PostQueryOptions) ([]models.Post, int64, error) {
	base := func() *gorm.DB {
		return r.db.Model(&models.Post{}).
			Joins("JOIN saved_posts ON saved_posts.post_id = posts.id AND saved_posts.user_id = ?", opts.ViewerID).
			Scopes(visibleTo(opts.ViewerID), withFilters(opts))
	}
	return r.listPage(base, opts, "saved_posts.created_at DESC")
}

// ListVisiblePosts returns every post the viewer may see, unordered and
// unpaginated, for ranking done by the caller
func (r *PostgresPostRepository) ListVisiblePosts(viewerID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Scopes(visibleTo(viewerID)).Preload("Owner").Preload("Collection").Find(&posts).Error
	return posts, err
}

// ToggleLike flips the viewer's like on a post and adjusts the stored
// counter in the same transaction, so the membership row and likes_count can
// never drift apart. Returns the resulting liked state.
func (r *PostgresPostRepository) ToggleLike(postID, userID uint) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		var existing int64
		if err := tx.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&existing).Error; err != nil {
			return err
		}

		if existing > 0 {
			if err := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			// Guard keeps the counter from ever going negative.
			if err := tx.Model(&models.Post{}).
				Where("id = ? AND likes_count > 0", postID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
			liked = false
			return nil
		}

		if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresPostRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetLikedPostIDs returns which of the given posts the user has liked
func (r *PostgresPostRepository) GetLikedPostIDs(userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(postIDs) == 0 {
		return result, nil
	}
	var likes []models.Like
	if err := r.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		result[l.PostID] = true
	}
	return result, nil
}
