package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/sinkedin/sinkedin/model"
	"gorm.io/gorm"
)

// DefaultActivityLimit bounds the recent-activity panel on the profile page.
const DefaultActivityLimit = 5

// CommentStore is the CRUD access to comments under stories.
type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// ListCommentsByStory returns the story's comments oldest first with the
// commenter profile joined in.
func (s *CommentStore) ListCommentsByStory(ctx context.Context, storyID string) ([]model.Comment, error) {
	var comments []model.Comment
	res := s.db.WithContext(ctx).
		Preload("User").
		Where("story_id = ?", storyID).
		Order("created_at asc").
		Find(&comments)
	if res.Error != nil {
		return nil, model.NewStoreError("list comments", res.Error)
	}
	return comments, nil
}

// CreateComment validates the input and inserts the comment. Dangling
// story_id or user_id is rejected by the store's foreign keys.
func (s *CommentStore) CreateComment(ctx context.Context, input model.NewCommentInput) (*model.Comment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	comment := model.Comment{
		Id:      uuid.New().String(),
		StoryID: input.StoryID,
		UserID:  input.UserID,
		Comment: input.Comment,
	}
	if res := s.db.WithContext(ctx).Create(&comment); res.Error != nil {
		return nil, model.NewStoreError("create comment", res.Error)
	}

	var created model.Comment
	res := s.db.WithContext(ctx).Preload("User").First(&created, "id = ?", comment.Id)
	if res.Error != nil {
		return nil, model.NewStoreError("create comment", res.Error)
	}
	return &created, nil
}

// CountCommentsByUser is a plain aggregate over the user's comments.
func (s *CommentStore) CountCommentsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	res := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("user_id = ?", userID).
		Count(&count)
	if res.Error != nil {
		return 0, model.NewStoreError("count comments by user", res.Error)
	}
	return count, nil
}

// RecentComment is a comment joined with the title of the story it was
// posted under, for the profile page's activity panel.
type RecentComment struct {
	model.Comment
	StoryTitle string `json:"story_title"`
}

// ListRecentCommentsByUser returns the user's newest comments together with
// the story titles, newest first.
func (s *CommentStore) ListRecentCommentsByUser(ctx context.Context, userID string, limit int) ([]RecentComment, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	var recents []RecentComment
	res := s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Select("comments.*, stories.title as story_title").
		Joins("JOIN stories ON stories.id = comments.story_id").
		Where("comments.user_id = ?", userID).
		Order("comments.created_at desc").
		Limit(limit).
		Scan(&recents)
	if res.Error != nil {
		return nil, model.NewStoreError("list recent comments", res.Error)
	}
	return recents, nil
}
