package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/govind-gojiya/blog-backend/internal/models"
	"github.com/govind-gojiya/blog-backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Collection{},
		&models.Post{},
		&models.Like{},
		&models.SavedPost{},
		&models.Follow{},
		&models.Tag{},
		&models.TaggedItem{},
		&models.PostHit{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCollection(t *testing.T, db *gorm.DB, label string) *models.Collection {
	t.Helper()
	collection := &models.Collection{Label: label}
	require.NoError(t, db.Create(collection).Error)
	return collection
}

func seedPost(t *testing.T, db *gorm.DB, owner *models.User, collection *models.Collection, title string, isPrivate bool, createdAt time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:        title,
		Description:  "about " + title,
		Content:      "content of " + title,
		IsPrivate:    isPrivate,
		OwnerID:      owner.ID,
		CollectionID: collection.ID,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// newRequestContext builds an echo context for a handler call. A zero userID
// leaves the request anonymous.
func newRequestContext(e *echo.Echo, method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID > 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func httpStatus(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}
