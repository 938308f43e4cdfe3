package repositories

import (
	"context"
	"time"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// HitRepository tracks deduplicated post views. A hit is counted at most
// once per visitor key within the active window; the view count of a post is
// the number of counted hits.
type HitRepository interface {
	RecordHit(ctx context.Context, postID uint, visitorKey string) (bool, error)
	GetViews(ctx context.Context, postID uint) (int64, error)
	GetViewsForPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error)
}

// PostgresHitRepository implements HitRepository on the primary store
type PostgresHitRepository struct {
	db     *gorm.DB
	window time.Duration
}

// NewPostgresHitRepository creates a new PostgresHitRepository. window is
// how long a visitor's hit stays "active", suppressing further counts.
func NewPostgresHitRepository(db *gorm.DB, window time.Duration) *PostgresHitRepository {
	return &PostgresHitRepository{db: db, window: window}
}

// RecordHit counts a view unless the same visitor was already counted
// within the active window. Returns whether the hit was counted.
func (r *PostgresHitRepository) RecordHit(ctx context.Context, postID uint, visitorKey string) (bool, error) {
	since := time.Now().Add(-r.window)

	var recent int64
	err := r.db.WithContext(ctx).Model(&models.PostHit{}).
		Where("post_id = ? AND visitor_key = ? AND created_at > ?", postID, visitorKey, since).
		Count(&recent).Error
	if err != nil {
		return false, err
	}
	if recent > 0 {
		return false, nil
	}

	hit := models.PostHit{PostID: postID, VisitorKey: visitorKey}
	if err := r.db.WithContext(ctx).Create(&hit).Error; err != nil {
		return false, err
	}
	return true, nil
}

// GetViews returns the view count for a single post
func (r *PostgresHitRepository) GetViews(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostHit{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// GetViewsForPosts returns view counts keyed by post ID. Posts with no
// recorded hits are absent from the map.
func (r *PostgresHitRepository) GetViewsForPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(postIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		PostID uint
		Views  int64
	}
	err := r.db.WithContext(ctx).Model(&models.PostHit{}).
		Select("post_id, COUNT(*) AS views").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = row.Views
	}
	return result, nil
}

// MongoHitRepository implements HitRepository on MongoDB, for deployments
// that keep the high-churn hit stream out of the relational store
type MongoHitRepository struct {
	collection *mongo.Collection
	window     time.Duration
}

// NewMongoHitRepository creates a new MongoHitRepository
func NewMongoHitRepository(db *mongo.Database, window time.Duration) *MongoHitRepository {
	return &MongoHitRepository{collection: db.Collection("hits"), window: window}
}

type hitDocument struct {
	PostID     uint      `bson:"post_id"`
	VisitorKey string    `bson:"visitor_key"`
	CreatedAt  time.Time `bson:"created_at"`
}

// RecordHit counts a view unless the same visitor was already counted
// within the active window
func (r *MongoHitRepository) RecordHit(ctx context.Context, postID uint, visitorKey string) (bool, error) {
	since := time.Now().Add(-r.window)

	err := r.collection.FindOne(ctx, bson.M{
		"post_id":     postID,
		"visitor_key": visitorKey,
		"created_at":  bson.M{"$gt": since},
	}).Err()
	if err == nil {
		return false, nil
	}
	if err != mongo.ErrNoDocuments {
		return false, err
	}

	_, err = r.collection.InsertOne(ctx, hitDocument{
		PostID:     postID,
		VisitorKey: visitorKey,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetViews returns the view count for a single post
func (r *MongoHitRepository) GetViews(ctx context.Context, postID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"post_id": postID})
}

// GetViewsForPosts returns view counts keyed by post ID
func (r *MongoHitRepository) GetViewsForPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	if len(postIDs) == 0 {
		return result, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post_id": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$post_id", "views": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		PostID uint  `bson:"_id"`
		Views  int64 `bson:"views"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.PostID] = row.Views
	}
	return result, nil
}
