package store

import (
	"context"
	"testing"
	"time"

	"github.com/sinkedin/sinkedin/model"
	"github.com/sinkedin/sinkedin/utils"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	comments := NewCommentStore(db)
	ctx := context.Background()

	authorID := utils.TestCreateProfileAndValidate(t, db, "", "Jane Doe")
	story := utils.TestCreateStoryAndValidate(t, db, authorID, "a story", "body", "lesson")

	t.Run("round trip with commenter resolved", func(t *testing.T) {
		created, err := comments.CreateComment(ctx, model.NewCommentInput{
			StoryID: story.Id,
			UserID:  authorID,
			Comment: "  been there  ",
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.Id)
		require.Equal(t, "been there", created.Comment)
		require.NotNil(t, created.User)
		require.Equal(t, "Jane Doe", created.User.DisplayName)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		_, err := comments.CreateComment(ctx, model.NewCommentInput{
			StoryID: story.Id,
			UserID:  authorID,
			Comment: "   ",
		})
		require.True(t, model.IsValidation(err))
	})

	t.Run("dangling commenter is a store failure", func(t *testing.T) {
		_, err := comments.CreateComment(ctx, model.NewCommentInput{
			StoryID: story.Id,
			UserID:  "no-such-profile",
			Comment: "hi",
		})
		require.True(t, model.IsStore(err))
	})

	t.Run("dangling story is a store failure", func(t *testing.T) {
		_, err := comments.CreateComment(ctx, model.NewCommentInput{
			StoryID: "no-such-story",
			UserID:  authorID,
			Comment: "hi",
		})
		require.True(t, model.IsStore(err))
	})
}

func TestListCommentsByStory(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	comments := NewCommentStore(db)
	ctx := context.Background()

	authorID := utils.TestCreateProfileAndValidate(t, db, "", "Jane Doe")
	story := utils.TestCreateStoryAndValidate(t, db, authorID, "a story", "body", "lesson")
	other := utils.TestCreateStoryAndValidate(t, db, authorID, "another", "body", "lesson")

	base := time.Now().Add(-time.Hour)
	c1 := utils.TestCreateCommentAndValidate(t, db, story.Id, authorID, "first", base)
	c3 := utils.TestCreateCommentAndValidate(t, db, story.Id, authorID, "third", base.Add(2*time.Minute))
	c2 := utils.TestCreateCommentAndValidate(t, db, story.Id, authorID, "second", base.Add(time.Minute))
	utils.TestCreateCommentAndValidate(t, db, other.Id, authorID, "elsewhere", base)

	got, err := comments.ListCommentsByStory(ctx, story.Id)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Oldest first regardless of insertion order.
	require.Equal(t, c1.Id, got[0].Id)
	require.Equal(t, c2.Id, got[1].Id)
	require.Equal(t, c3.Id, got[2].Id)
	require.NotNil(t, got[0].User)

	empty, err := comments.ListCommentsByStory(ctx, "no-such-story")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRecentCommentsByUser(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	comments := NewCommentStore(db)
	ctx := context.Background()

	userID := utils.TestCreateProfileAndValidate(t, db, "", "Jane Doe")
	otherID := utils.TestCreateProfileAndValidate(t, db, "", "John Roe")
	story := utils.TestCreateStoryAndValidate(t, db, userID, "story one", "body", "lesson")
	story2 := utils.TestCreateStoryAndValidate(t, db, userID, "story two", "body", "lesson")

	base := time.Now().Add(-time.Hour)
	utils.TestCreateCommentAndValidate(t, db, story.Id, userID, "older", base)
	newest := utils.TestCreateCommentAndValidate(t, db, story2.Id, userID, "newer", base.Add(time.Minute))
	utils.TestCreateCommentAndValidate(t, db, story.Id, otherID, "not mine", base.Add(2*time.Minute))

	recents, err := comments.ListRecentCommentsByUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, recents, 2)
	require.Equal(t, newest.Id, recents[0].Id)
	require.Equal(t, "story two", recents[0].StoryTitle)
	require.Equal(t, "story one", recents[1].StoryTitle)

	limited, err := comments.ListRecentCommentsByUser(ctx, userID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)

	count, err := comments.CountCommentsByUser(ctx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}
