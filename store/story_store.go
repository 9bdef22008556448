package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/sinkedin/sinkedin/model"
	"github.com/sinkedin/sinkedin/utils"
	"gorm.io/gorm"
)

const (
	// DefaultStoryPageSize is used when the caller passes no limit.
	DefaultStoryPageSize = 10
	// MaxStoryPageSize caps a single page, larger requests are clamped.
	MaxStoryPageSize = 100
)

// StoryStore is the CRUD access to stories. Every read is a fresh query,
// no result is cached in process.
type StoryStore struct {
	db *gorm.DB
}

func NewStoryStore(db *gorm.DB) *StoryStore {
	return &StoryStore{db: db}
}

// ListStories returns stories newest first with the author profile joined
// in. An empty page is a successful result, not an error.
func (s *StoryStore) ListStories(ctx context.Context, limit, offset int) ([]model.Story, error) {
	limit = clampPageSize(limit)
	if offset < 0 {
		offset = 0
	}

	var stories []model.Story
	res := s.db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&stories)
	if res.Error != nil {
		return nil, model.NewStoreError("list stories", res.Error)
	}
	return stories, nil
}

// ListStoriesByAuthor returns the author's own stories newest first.
func (s *StoryStore) ListStoriesByAuthor(ctx context.Context, authorID string, limit int) ([]model.Story, error) {
	limit = clampPageSize(limit)

	var stories []model.Story
	res := s.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Limit(limit).
		Find(&stories)
	if res.Error != nil {
		return nil, model.NewStoreError("list stories by author", res.Error)
	}
	return stories, nil
}

// CountStoriesByAuthor is a plain aggregate over the author's stories.
func (s *StoryStore) CountStoriesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	res := s.db.WithContext(ctx).
		Model(&model.Story{}).
		Where("author_id = ?", authorID).
		Count(&count)
	if res.Error != nil {
		return 0, model.NewStoreError("count stories by author", res.Error)
	}
	return count, nil
}

// CreateStory validates the input bounds and inserts the story. The caller
// must have ensured the author's profile row already, a dangling author_id
// is rejected by the store's foreign key and surfaces as a StoreError. The
// returned row has the author snapshot resolved.
func (s *StoryStore) CreateStory(ctx context.Context, input model.NewStoryInput) (*model.Story, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	story := model.Story{
		Id:       uuid.New().String(),
		Title:    input.Title,
		Story:    input.Story,
		Lesson:   input.Lesson,
		AuthorID: input.AuthorID,
	}
	if res := s.db.WithContext(ctx).Create(&story); res.Error != nil {
		return nil, model.NewStoreError("create story", res.Error)
	}

	var created model.Story
	res := s.db.WithContext(ctx).Preload("Author").First(&created, "id = ?", story.Id)
	if res.Error != nil {
		return nil, model.NewStoreError("create story", res.Error)
	}
	return &created, nil
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultStoryPageSize
	}
	return utils.Min(limit, MaxStoryPageSize)
}
