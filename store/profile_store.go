package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sinkedin/sinkedin/identity"
	"github.com/sinkedin/sinkedin/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileStore manages the user_profiles rows content joins against. Rows
// are created lazily when an identity first writes content and refreshed
// whenever the identity's metadata changes. Profiles are never deleted.
type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Ensure creates the profile row for id if it does not exist yet. An
// existing row is left untouched, concurrent callers race safely on the
// primary key.
func (s *ProfileStore) Ensure(ctx context.Context, id string, displayName string) error {
	profile := model.UserProfile{Id: id, DisplayName: displayName}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&profile)
	if res.Error != nil {
		return model.NewStoreError("ensure profile", res.Error)
	}
	return nil
}

// Get returns the profile row, or nil when none exists.
func (s *ProfileStore) Get(ctx context.Context, id string) (*model.UserProfile, error) {
	var profile model.UserProfile
	res := s.db.WithContext(ctx).First(&profile, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, model.NewStoreError("get profile", res.Error)
	}
	return &profile, nil
}

// SyncFromIdentity upserts the display snapshot from the identity
// provider's record so stories and comments join against fresh names.
func (s *ProfileStore) SyncFromIdentity(ctx context.Context, id *identity.Identity) error {
	links, err := json.Marshal(model.SocialLinkSet{
		LinkedInUrl: id.Metadata.LinkedInUrl,
		TwitterUrl:  id.Metadata.TwitterUrl,
	})
	if err != nil {
		return model.NewStoreError("sync profile", err)
	}

	profile := model.UserProfile{
		Id:                id.ID,
		DisplayName:       id.DisplayName(),
		Bio:               id.Metadata.Bio,
		SocialLinks:       datatypes.JSON(links),
		ProfilePictureUrl: id.Metadata.ProfilePictureUrl,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"display_name", "bio", "social_links", "profile_picture_url", "updated_at"}),
	}).Create(&profile)
	if res.Error != nil {
		return model.NewStoreError("sync profile", res.Error)
	}
	return nil
}
