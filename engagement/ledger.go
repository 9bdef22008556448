// Package engagement maintains the per-user, per-story like facts. It is
// the only component with a write-write race to defend: two near
// simultaneous toggles from the same viewer (a double-click) must never
// leave two rows for the same (story, user) pair.
package engagement

import (
	"context"

	"github.com/google/uuid"
	"github.com/sinkedin/sinkedin/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger exposes idempotent toggle, count and membership queries over the
// story_likes table.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ToggleResult reports the state after a toggle. LikeCount always comes
// from a fresh aggregate query, never from an incrementally maintained
// counter, so it cannot drift.
type ToggleResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// Toggle likes the story when the viewer has no like row, unlikes it when
// one exists. The decision is made by the database, not by a prior read:
// the insert carries ON CONFLICT (story_id, user_id) DO NOTHING, and zero
// affected rows means the pair already existed (including a row a
// concurrent call just won) so the row is deleted instead. Either path
// leaves at most one row for the pair.
func (l *Ledger) Toggle(ctx context.Context, storyID string, viewerID string) (*ToggleResult, error) {
	if viewerID == "" {
		return nil, model.NewAuthError(model.AuthCauseUnauthenticated,
			"Authentication required to like stories")
	}

	liked := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := model.StoryLike{
			Id:      uuid.New().String(),
			StoryID: storyID,
			UserID:  viewerID,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "story_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// The pair exists, this toggle is an unlike. Hard delete, a like
			// leaves no tombstone.
			return tx.Where("story_id = ? AND user_id = ?", storyID, viewerID).
				Delete(&model.StoryLike{}).Error
		}
		liked = true
		return nil
	})
	if err != nil {
		return nil, model.NewStoreError("toggle like", err)
	}

	count, err := l.Count(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Liked: liked, LikeCount: count}, nil
}

// Count returns the story's like count as a fresh aggregate.
func (l *Ledger) Count(ctx context.Context, storyID string) (int64, error) {
	var count int64
	res := l.db.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("story_id = ?", storyID).
		Count(&count)
	if res.Error != nil {
		return 0, model.NewStoreError("count likes", res.Error)
	}
	return count, nil
}

// HasLiked reports whether the viewer liked the story. An absent viewer is
// simply "no", not an error.
func (l *Ledger) HasLiked(ctx context.Context, storyID string, viewerID string) (bool, error) {
	if viewerID == "" {
		return false, nil
	}

	var count int64
	res := l.db.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("story_id = ? AND user_id = ?", storyID, viewerID).
		Count(&count)
	if res.Error != nil {
		return false, model.NewStoreError("check like", res.Error)
	}
	return count > 0, nil
}

// CountByStory returns like counts for the whole story-id set in one
// grouped query. Stories without likes are absent from the map.
func (l *Ledger) CountByStory(ctx context.Context, storyIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(storyIDs))
	if len(storyIDs) == 0 {
		return counts, nil
	}

	type countRow struct {
		StoryID   string
		LikeCount int64
	}
	var rows []countRow
	res := l.db.WithContext(ctx).
		Model(&model.StoryLike{}).
		Select("story_id, count(*) as like_count").
		Where("story_id IN ?", storyIDs).
		Group("story_id").
		Scan(&rows)
	if res.Error != nil {
		return nil, model.NewStoreError("count likes by story", res.Error)
	}

	for _, row := range rows {
		counts[row.StoryID] = row.LikeCount
	}
	return counts, nil
}

// LikedByViewer returns which of the given stories the viewer liked, in one
// membership query. An absent viewer yields an empty map.
func (l *Ledger) LikedByViewer(ctx context.Context, storyIDs []string, viewerID string) (map[string]bool, error) {
	liked := make(map[string]bool, len(storyIDs))
	if viewerID == "" || len(storyIDs) == 0 {
		return liked, nil
	}

	var likedIDs []string
	res := l.db.WithContext(ctx).
		Model(&model.StoryLike{}).
		Where("user_id = ? AND story_id IN ?", viewerID, storyIDs).
		Pluck("story_id", &likedIDs)
	if res.Error != nil {
		return nil, model.NewStoreError("check likes by viewer", res.Error)
	}

	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}
