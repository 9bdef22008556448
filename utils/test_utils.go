package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sinkedin/sinkedin/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Seeding helpers shared by package tests. They write rows directly through
// gorm so component tests don't depend on each other's create paths.

// TestCreateProfileAndValidate inserts a user profile row and returns its id.
func TestCreateProfileAndValidate(t *testing.T, db *gorm.DB, id string, displayName string) string {
	t.Helper()
	if id == "" {
		id = uuid.New().String()
	}
	profile := model.UserProfile{Id: id, DisplayName: displayName}
	require.NoError(t, db.Create(&profile).Error)

	var got model.UserProfile
	require.NoError(t, db.First(&got, "id = ?", id).Error)
	require.Equal(t, displayName, got.DisplayName)
	return id
}

// TestCreateStoryAndValidate inserts a story row authored by authorID and
// returns it. Field bounds are not checked here, tests may seed whatever
// they need.
func TestCreateStoryAndValidate(t *testing.T, db *gorm.DB, authorID string, title string, body string, lesson string) *model.Story {
	t.Helper()
	story := model.Story{
		Id:       uuid.New().String(),
		Title:    title,
		Story:    body,
		Lesson:   lesson,
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(&story).Error)
	require.NotEmpty(t, story.Id)
	require.False(t, story.CreatedAt.IsZero())
	return &story
}

// TestCreateCommentAndValidate inserts a comment row with an explicit
// creation time so ordering tests can control t1 < t2 < t3.
func TestCreateCommentAndValidate(t *testing.T, db *gorm.DB, storyID string, userID string, text string, createdAt time.Time) *model.Comment {
	t.Helper()
	comment := model.Comment{
		Id:        uuid.New().String(),
		StoryID:   storyID,
		UserID:    userID,
		Comment:   text,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&comment).Error)
	return &comment
}

// TestRandomText returns a deterministic-length filler string for bound
// tests (n runes of "x").
func TestRandomText(n int) string {
	return strings.Repeat("x", n)
}
