// Package server is the HTTP surface over the story, comment, like and
// identity components. Handlers stay thin: decode, delegate, map errors.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sinkedin/sinkedin/engagement"
	"github.com/sinkedin/sinkedin/feed"
	"github.com/sinkedin/sinkedin/filestore"
	"github.com/sinkedin/sinkedin/identity"
	"github.com/sinkedin/sinkedin/model"
	"github.com/sinkedin/sinkedin/server/middlewares"
	"github.com/sinkedin/sinkedin/store"
	"github.com/sinkedin/sinkedin/utils"
	Logger "github.com/sinkedin/sinkedin/utils/log"
)

// MaxAvatarSize caps profile picture uploads at 5MB, checked before the
// object store is called.
const MaxAvatarSize = 5 << 20

// Server carries every component a handler needs, all injected.
type Server struct {
	gateway    *identity.Gateway
	profiles   *store.ProfileStore
	stories    *store.StoryStore
	comments   *store.CommentStore
	ledger     *engagement.Ledger
	aggregator *feed.Aggregator
	avatars    filestore.AvatarStore
}

func NewServer(
	gateway *identity.Gateway,
	profiles *store.ProfileStore,
	stories *store.StoryStore,
	comments *store.CommentStore,
	ledger *engagement.Ledger,
	aggregator *feed.Aggregator,
	avatars filestore.AvatarStore,
) *Server {
	return &Server{
		gateway:    gateway,
		profiles:   profiles,
		stories:    stories,
		comments:   comments,
		ledger:     ledger,
		aggregator: aggregator,
		avatars:    avatars,
	}
}

func (s *Server) handleSignUp(c *gin.Context) {
	var input model.SignUpInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, model.NewValidationError("body", "invalid request body"))
		return
	}

	created, err := s.gateway.SignUp(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleSignIn(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, model.NewValidationError("body", "invalid request body"))
		return
	}

	session, err := s.gateway.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSignOut(c *gin.Context) {
	if err := s.gateway.SignOut(c.Request.Context(), middlewares.AccessToken(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleMe(c *gin.Context) {
	c.JSON(http.StatusOK, middlewares.Viewer(c))
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var patch model.MetadataPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, model.NewValidationError("body", "invalid request body"))
		return
	}

	updated, err := s.gateway.UpdateMetadata(c.Request.Context(), middlewares.AccessToken(c), patch)
	if err != nil {
		writeError(c, err)
		return
	}

	// Keep the join snapshot in sync so stories show the new name at once.
	if err := s.profiles.SyncFromIdentity(c.Request.Context(), updated); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleUploadAvatar(c *gin.Context) {
	viewer := middlewares.Viewer(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		writeError(c, model.NewValidationError("avatar", "Please select an image file"))
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(c, model.NewValidationError("avatar", "Please select an image file"))
		return
	}
	if file.Size > MaxAvatarSize {
		writeError(c, model.NewValidationError("avatar", "Image must be smaller than 5MB"))
		return
	}

	reader, err := file.Open()
	if err != nil {
		writeError(c, model.NewStoreError("upload avatar", err))
		return
	}
	defer reader.Close()

	// Keyed under the viewer id so one user cannot overwrite another's file.
	hash, err := utils.TextToMd5Hash(fmt.Sprintf("%s-%d", viewer.ID, time.Now().UnixMilli()))
	if err != nil {
		writeError(c, model.NewStoreError("upload avatar", err))
		return
	}
	key := fmt.Sprintf("%s/%s%s", viewer.ID, hash, utils.FileExtNameWithDot(file.Filename))
	publicUrl, err := s.avatars.Upload(c.Request.Context(), key, contentType, reader)
	if err != nil {
		writeError(c, model.NewStoreError("upload avatar", err))
		return
	}

	updated, err := s.gateway.UpdateMetadata(c.Request.Context(), middlewares.AccessToken(c), model.MetadataPatch{
		ProfilePictureUrl: &publicUrl,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.profiles.SyncFromIdentity(c.Request.Context(), updated); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_picture_url": publicUrl})
}

func (s *Server) handleListStories(c *gin.Context) {
	limit := intQuery(c, "limit", store.DefaultStoryPageSize)
	offset := intQuery(c, "offset", 0)

	stories, err := s.aggregator.AnnotatedStories(c.Request.Context(), limit, offset, viewerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (s *Server) handleCreateStory(c *gin.Context) {
	viewer := middlewares.Viewer(c)

	var input model.NewStoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, model.NewValidationError("body", "invalid request body"))
		return
	}
	input.AuthorID = viewer.ID

	// First content interaction creates the profile row the story joins to.
	if err := s.profiles.Ensure(c.Request.Context(), viewer.ID, viewer.DisplayName()); err != nil {
		writeError(c, err)
		return
	}

	created, err := s.stories.CreateStory(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, &feed.AnnotatedStory{
		Id:             created.Id,
		CreatedAt:      created.CreatedAt,
		Title:          created.Title,
		Story:          created.Story,
		Lesson:         created.Lesson,
		AuthorID:       created.AuthorID,
		Author:         created.Author,
		LikeCount:      0,
		ViewerHasLiked: false,
	})
}

func (s *Server) handleListComments(c *gin.Context) {
	comments, err := s.comments.ListCommentsByStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *Server) handleCreateComment(c *gin.Context) {
	viewer := middlewares.Viewer(c)

	var input model.NewCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeError(c, model.NewValidationError("body", "invalid request body"))
		return
	}
	input.StoryID = c.Param("id")
	input.UserID = viewer.ID

	if err := s.profiles.Ensure(c.Request.Context(), viewer.ID, viewer.DisplayName()); err != nil {
		writeError(c, err)
		return
	}

	created, err := s.comments.CreateComment(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// handleToggleLike runs with optional auth so an unauthenticated toggle
// reaches the ledger and comes back as the ledger's own AuthError.
func (s *Server) handleToggleLike(c *gin.Context) {
	if viewer := middlewares.Viewer(c); viewer != nil {
		if err := s.profiles.Ensure(c.Request.Context(), viewer.ID, viewer.DisplayName()); err != nil {
			writeError(c, err)
			return
		}
	}

	result, err := s.ledger.Toggle(c.Request.Context(), c.Param("id"), viewerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleMyStories(c *gin.Context) {
	viewer := middlewares.Viewer(c)
	limit := intQuery(c, "limit", store.MaxStoryPageSize)

	stories, err := s.aggregator.AnnotatedStoriesByAuthor(c.Request.Context(), viewer.ID, limit, viewer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stories)
}

func (s *Server) handleMyActivity(c *gin.Context) {
	viewer := middlewares.Viewer(c)

	activity, err := s.aggregator.RecentActivity(c.Request.Context(), viewer.ID, intQuery(c, "limit", store.DefaultActivityLimit))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (s *Server) handleMyStats(c *gin.Context) {
	viewer := middlewares.Viewer(c)

	stats, err := s.aggregator.AuthorStats(c.Request.Context(), viewer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

func viewerID(c *gin.Context) string {
	if viewer := middlewares.Viewer(c); viewer != nil {
		return viewer.ID
	}
	return ""
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// writeError maps the three error kinds onto HTTP statuses. Store failures
// carry a retry hint, the client offers a manual retry instead of retrying
// silently.
func writeError(c *gin.Context, err error) {
	var validation *model.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field})
		return
	}

	var auth *model.AuthError
	if errors.As(err, &auth) {
		status := http.StatusUnauthorized
		switch auth.Cause {
		case model.AuthCauseRateLimited:
			status = http.StatusTooManyRequests
		case model.AuthCauseSignupDisabled:
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": auth.Message, "cause": string(auth.Cause)})
		return
	}

	var storeErr *model.StoreError
	if errors.As(err, &storeErr) {
		Logger.Log.Error("store failure: ", storeErr)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong. Please try again.", "retry": true})
		return
	}

	Logger.Log.Error("unhandled error: ", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
}
