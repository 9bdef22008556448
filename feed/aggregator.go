// Package feed composes the content store and the engagement ledger into
// display-ready records for the presentation layer.
package feed

import (
	"context"
	"time"

	"github.com/jinzhu/copier"
	"github.com/sinkedin/sinkedin/engagement"
	"github.com/sinkedin/sinkedin/model"
	"github.com/sinkedin/sinkedin/store"
)

// AnnotatedStory is a story enriched with the like aggregate and the
// viewer's own like status. It is a plain display record, nothing in it is
// persisted.
type AnnotatedStory struct {
	Id             string             `json:"id"`
	CreatedAt      time.Time          `json:"created_at"`
	Title          string             `json:"title"`
	Story          string             `json:"story"`
	Lesson         string             `json:"lesson"`
	AuthorID       string             `json:"author_id"`
	Author         *model.UserProfile `json:"author_details,omitempty"`
	LikeCount      int64              `json:"like_count"`
	ViewerHasLiked bool               `json:"user_has_liked"`
}

// Activity is one entry of the profile page's recent-activity panel.
// Comments are the only activity kind today.
type Activity struct {
	Id         string    `json:"id"`
	Type       string    `json:"type"`
	Content    string    `json:"content"`
	StoryID    string    `json:"story_id"`
	StoryTitle string    `json:"story_title"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthorStats is the profile page's counters. The two counts are read in
// independent queries with no transaction between them, momentary skew is
// acceptable for a dashboard panel.
type AuthorStats struct {
	StoryCount   int64 `json:"total_stories"`
	CommentCount int64 `json:"total_comments"`
}

// Aggregator composes its collaborators, all injected at construction.
type Aggregator struct {
	stories  *store.StoryStore
	comments *store.CommentStore
	likes    *engagement.Ledger
}

func NewAggregator(stories *store.StoryStore, comments *store.CommentStore, likes *engagement.Ledger) *Aggregator {
	return &Aggregator{stories: stories, comments: comments, likes: likes}
}

// AnnotatedStories returns a feed page annotated with like counts and, when
// a viewer is present, the viewer's like status. The like data comes from
// one batched count query and one batched membership query over the whole
// page, never from per-story round trips. Any sub-query failure fails the
// whole read, a partially annotated page is never returned.
func (a *Aggregator) AnnotatedStories(ctx context.Context, limit, offset int, viewerID string) ([]*AnnotatedStory, error) {
	stories, err := a.stories.ListStories(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return a.annotate(ctx, stories, viewerID)
}

// AnnotatedStoriesByAuthor is AnnotatedStories restricted to one author,
// for the profile page's "your stories" panel.
func (a *Aggregator) AnnotatedStoriesByAuthor(ctx context.Context, authorID string, limit int, viewerID string) ([]*AnnotatedStory, error) {
	stories, err := a.stories.ListStoriesByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}
	return a.annotate(ctx, stories, viewerID)
}

func (a *Aggregator) annotate(ctx context.Context, stories []model.Story, viewerID string) ([]*AnnotatedStory, error) {
	annotated := make([]*AnnotatedStory, 0, len(stories))
	if len(stories) == 0 {
		return annotated, nil
	}

	storyIDs := make([]string, 0, len(stories))
	for idx := range stories {
		storyIDs = append(storyIDs, stories[idx].Id)
	}

	counts, err := a.likes.CountByStory(ctx, storyIDs)
	if err != nil {
		return nil, err
	}
	likedByViewer, err := a.likes.LikedByViewer(ctx, storyIDs, viewerID)
	if err != nil {
		return nil, err
	}

	for idx := range stories {
		var entry AnnotatedStory
		if err := copier.Copy(&entry, &stories[idx]); err != nil {
			return nil, model.NewStoreError("annotate stories", err)
		}
		entry.LikeCount = counts[entry.Id]
		entry.ViewerHasLiked = likedByViewer[entry.Id]
		annotated = append(annotated, &entry)
	}
	return annotated, nil
}

// RecentActivity returns the user's newest comments with story titles.
func (a *Aggregator) RecentActivity(ctx context.Context, userID string, limit int) ([]Activity, error) {
	recents, err := a.comments.ListRecentCommentsByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(recents))
	for _, recent := range recents {
		activities = append(activities, Activity{
			Id:         recent.Id,
			Type:       "comment",
			Content:    recent.Comment.Comment,
			StoryID:    recent.StoryID,
			StoryTitle: recent.StoryTitle,
			CreatedAt:  recent.CreatedAt,
		})
	}
	return activities, nil
}

// AuthorStats returns the user's story and comment counts.
func (a *Aggregator) AuthorStats(ctx context.Context, userID string) (*AuthorStats, error) {
	storyCount, err := a.stories.CountStoriesByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	commentCount, err := a.comments.CountCommentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AuthorStats{StoryCount: storyCount, CommentCount: commentCount}, nil
}
