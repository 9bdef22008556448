package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Length bounds enforced before any store call. These mirror the submission
// form limits, the store itself only enforces referential integrity.
const (
	TitleMinLen  = 5
	TitleMaxLen  = 100
	StoryMinLen  = 50
	StoryMaxLen  = 2000
	LessonMinLen = 20
	LessonMaxLen = 500

	DisplayNameMinLen = 2
	PasswordMinLen    = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewStoryInput is the payload for creating a story. All text fields are
// trimmed before validation and storage.
type NewStoryInput struct {
	Title    string `json:"title"`
	Story    string `json:"story"`
	Lesson   string `json:"lesson"`
	AuthorID string `json:"author_id"`
}

func (in *NewStoryInput) Trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Story = strings.TrimSpace(in.Story)
	in.Lesson = strings.TrimSpace(in.Lesson)
}

func (in *NewStoryInput) Validate() error {
	in.Trim()
	if err := requireLength("title", in.Title, TitleMinLen, TitleMaxLen); err != nil {
		return err
	}
	if err := requireLength("story", in.Story, StoryMinLen, StoryMaxLen); err != nil {
		return err
	}
	if err := requireLength("lesson", in.Lesson, LessonMinLen, LessonMaxLen); err != nil {
		return err
	}
	if in.AuthorID == "" {
		return NewValidationError("author_id", "author is required")
	}
	return nil
}

// NewCommentInput is the payload for creating a comment.
type NewCommentInput struct {
	StoryID string `json:"story_id"`
	UserID  string `json:"user_id"`
	Comment string `json:"comment"`
}

func (in *NewCommentInput) Validate() error {
	in.Comment = strings.TrimSpace(in.Comment)
	if in.Comment == "" {
		return NewValidationError("comment", "Comment cannot be empty")
	}
	if in.StoryID == "" {
		return NewValidationError("story_id", "story is required")
	}
	if in.UserID == "" {
		return NewValidationError("user_id", "commenter is required")
	}
	return nil
}

// SignUpInput is the payload for account creation.
type SignUpInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"full_name"`
}

func (in *SignUpInput) Validate() error {
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Email == "" {
		return NewValidationError("email", "Email is required")
	}
	if !emailPattern.MatchString(in.Email) {
		return NewValidationError("email", "Please enter a valid email address")
	}
	if in.Password == "" {
		return NewValidationError("password", "Password is required")
	}
	if len(in.Password) < PasswordMinLen {
		return NewValidationError("password", fmt.Sprintf("Password must be at least %d characters", PasswordMinLen))
	}
	if len(in.DisplayName) < DisplayNameMinLen {
		return NewValidationError("full_name", fmt.Sprintf("Full name must be at least %d characters", DisplayNameMinLen))
	}
	return nil
}

// MetadataPatch is a partial update of the viewer's profile metadata. Nil
// fields are left untouched, non-nil fields overwrite, merging happens at
// the identity provider.
type MetadataPatch struct {
	FullName          *string `json:"full_name,omitempty"`
	Bio               *string `json:"bio,omitempty"`
	LinkedInUrl       *string `json:"linkedin_url,omitempty"`
	TwitterUrl        *string `json:"twitter_url,omitempty"`
	ProfilePictureUrl *string `json:"profile_picture_url,omitempty"`
}

func requireLength(field, value string, min, max int) error {
	label := fieldLabel(field)
	n := len([]rune(value))
	if n == 0 {
		return NewValidationError(field, fmt.Sprintf("%s is required", label))
	}
	if n < min {
		return NewValidationError(field, fmt.Sprintf("%s must be at least %d characters", label, min))
	}
	if n > max {
		return NewValidationError(field, fmt.Sprintf("%s must be less than %d characters", label, max))
	}
	return nil
}

func fieldLabel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
