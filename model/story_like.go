package model

import "time"

/*

StoryLike is a "many-to-many" relation marking that a user liked a story.

Id: primary key
StoryID: liked story
UserID: user who liked it
CreatedAt: time when relation is created

The (story_id, user_id) pair is unique at the store level. Toggling relies
on that constraint: a concurrent duplicate insert must be rejected by the
database, not filtered by application code. Unliking is a hard delete, there
is no soft-deleted like. Both columns are foreign keys, a like can only
exist for a story and a profile that exist.

*/

type StoryLike struct {
	Id        string       `gorm:"primaryKey" json:"id"`
	StoryID   string       `gorm:"uniqueIndex:idx_story_likes_story_user" json:"story_id"`
	Story     *Story       `gorm:"foreignKey:StoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    string       `gorm:"uniqueIndex:idx_story_likes_story_user" json:"user_id"`
	User      *UserProfile `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time    `json:"created_at"`
}
