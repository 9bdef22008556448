package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validStoryInput() NewStoryInput {
	return NewStoryInput{
		Title:    "I got laid off",
		Story:    strings.Repeat("s", StoryMinLen),
		Lesson:   strings.Repeat("l", LessonMinLen),
		AuthorID: "author-1",
	}
}

func TestNewStoryInputValidate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		in := validStoryInput()
		require.NoError(t, in.Validate())
	})

	t.Run("title bounds", func(t *testing.T) {
		in := validStoryInput()
		in.Title = strings.Repeat("t", TitleMinLen-1)
		requireValidationField(t, in.Validate(), "title")

		in.Title = strings.Repeat("t", TitleMinLen)
		require.NoError(t, in.Validate())

		in.Title = strings.Repeat("t", TitleMaxLen)
		require.NoError(t, in.Validate())

		in.Title = strings.Repeat("t", TitleMaxLen+1)
		requireValidationField(t, in.Validate(), "title")
	})

	t.Run("story bounds", func(t *testing.T) {
		in := validStoryInput()
		in.Story = strings.Repeat("s", StoryMinLen-1)
		requireValidationField(t, in.Validate(), "story")

		in.Story = strings.Repeat("s", StoryMaxLen)
		require.NoError(t, in.Validate())

		in.Story = strings.Repeat("s", StoryMaxLen+1)
		requireValidationField(t, in.Validate(), "story")
	})

	t.Run("lesson bounds", func(t *testing.T) {
		in := validStoryInput()
		in.Lesson = strings.Repeat("l", LessonMinLen-1)
		requireValidationField(t, in.Validate(), "lesson")

		in.Lesson = strings.Repeat("l", LessonMaxLen+1)
		requireValidationField(t, in.Validate(), "lesson")
	})

	t.Run("bounds count runes not bytes", func(t *testing.T) {
		in := validStoryInput()
		// 5 runes, 15 bytes. Must pass the minimum.
		in.Title = strings.Repeat("字", TitleMinLen)
		require.NoError(t, in.Validate())
	})

	t.Run("whitespace is trimmed before checking", func(t *testing.T) {
		in := validStoryInput()
		in.Title = "    x    "
		requireValidationField(t, in.Validate(), "title")

		in = validStoryInput()
		in.Title = "  valid title  "
		require.NoError(t, in.Validate())
		require.Equal(t, "valid title", in.Title)
	})

	t.Run("missing author", func(t *testing.T) {
		in := validStoryInput()
		in.AuthorID = ""
		requireValidationField(t, in.Validate(), "author_id")
	})
}

func TestNewCommentInputValidate(t *testing.T) {
	in := NewCommentInput{StoryID: "story-1", UserID: "user-1", Comment: "nice"}
	require.NoError(t, in.Validate())

	in.Comment = "   "
	requireValidationField(t, in.Validate(), "comment")

	in = NewCommentInput{StoryID: "", UserID: "user-1", Comment: "nice"}
	requireValidationField(t, in.Validate(), "story_id")

	in = NewCommentInput{StoryID: "story-1", UserID: "", Comment: "nice"}
	requireValidationField(t, in.Validate(), "user_id")
}

func TestSignUpInputValidate(t *testing.T) {
	valid := SignUpInput{Email: "jane@example.com", Password: "secret1", DisplayName: "Jane"}
	require.NoError(t, valid.Validate())

	in := valid
	in.Email = ""
	requireValidationField(t, in.Validate(), "email")

	in = valid
	in.Email = "not-an-email"
	requireValidationField(t, in.Validate(), "email")

	in = valid
	in.Password = ""
	requireValidationField(t, in.Validate(), "password")

	in = valid
	in.Password = strings.Repeat("p", PasswordMinLen-1)
	requireValidationField(t, in.Validate(), "password")

	in = valid
	in.DisplayName = "J"
	requireValidationField(t, in.Validate(), "full_name")
}

func TestErrorPredicates(t *testing.T) {
	validation := NewValidationError("title", "Title is required")
	require.True(t, IsValidation(validation))
	require.False(t, IsAuth(validation))

	auth := NewAuthError(AuthCauseRateLimited, "Too many attempts.")
	require.True(t, IsAuth(auth))
	require.False(t, IsStore(auth))

	store := NewStoreError("list stories", auth)
	require.True(t, IsStore(store))
	// The wrapped cause stays reachable through Unwrap.
	require.True(t, IsAuth(store))
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Equal(t, field, validation.Field)
}
