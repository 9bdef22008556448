package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

UserProfile is the denormalized display identity for a user, keyed by the
identity provider's user id (sub). It is the join target for author and
commenter display names.

Id: primary key, the external identity id
DisplayName: name shown next to stories and comments
Bio: short free-form text
SocialLinks: JSON object with linkedin_url / twitter_url
ProfilePictureUrl: public URL of the uploaded avatar

A profile row is created implicitly the first time its identity writes
content, and is never deleted by this service.

*/

type UserProfile struct {
	Id                string         `gorm:"primaryKey" json:"id"`
	DisplayName       string         `json:"display_name"`
	Bio               string         `json:"bio,omitempty"`
	SocialLinks       datatypes.JSON `json:"social_links,omitempty"`
	ProfilePictureUrl string         `json:"profile_picture_url,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"-"`
}

// SocialLinkSet is the decoded shape of UserProfile.SocialLinks.
type SocialLinkSet struct {
	LinkedInUrl string `json:"linkedin_url,omitempty"`
	TwitterUrl  string `json:"twitter_url,omitempty"`
}
