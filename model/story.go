package model

import (
	"time"

	"gorm.io/gorm"
)

/*

Story is a career-setback story posted by a user.

Id: primary key
CreatedAt: time when entity is created, server-assigned
DeletedAt: time when entity is deleted. No delete path is exposed yet, the
           column exists so adding one later is not a migration.

Title: short headline, 5-100 characters
Story: the setback itself, 50-2000 characters
Lesson: what the author took away from it, 20-500 characters
AuthorID:
Author: profile of the user who posted the story, "belongs-to" relation

Stories are immutable once created.

*/

type Story struct {
	Id        string         `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `json:"-"`
	Title     string         `json:"title"`
	Story     string         `json:"story"`
	Lesson    string         `json:"lesson"`
	AuthorID  string         `json:"author_id"`
	Author    *UserProfile   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"author_details,omitempty"`
}
