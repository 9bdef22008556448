package model

import (
	"time"

	"gorm.io/gorm"
)

/*

Comment is a user's reply under a story.

Id: primary key
CreatedAt: time when entity is created
DeletedAt: time when entity is deleted, no delete path exposed yet

StoryID: story this comment belongs to, "belongs-to" relation
UserID:
User: profile of the commenter, "belongs-to" relation
Comment: the reply text, non-empty

Comments are listed oldest first and are never mutated.

*/

type Comment struct {
	Id        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
	StoryID   string         `json:"story_id"`
	Story     *Story         `gorm:"foreignKey:StoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    string         `json:"user_id"`
	User      *UserProfile   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user_details,omitempty"`
	Comment   string         `json:"comment"`
}
