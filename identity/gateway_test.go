package identity

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/sinkedin/sinkedin/model"
	"github.com/stretchr/testify/require"
)

func signUpAndSignIn(t *testing.T, gateway *Gateway) *Session {
	t.Helper()
	ctx := context.Background()

	_, err := gateway.SignUp(ctx, model.SignUpInput{
		Email:       "jane@example.com",
		Password:    "secret1",
		DisplayName: "Jane Doe",
	})
	require.NoError(t, err)

	session, err := gateway.SignIn(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	return session
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an identity", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		created, err := gateway.SignUp(ctx, model.SignUpInput{
			Email:       "jane@example.com",
			Password:    "secret1",
			DisplayName: "Jane Doe",
		})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		require.Equal(t, "jane@example.com", created.Email)
		require.Equal(t, "Jane Doe", created.Metadata.FullName)
	})

	t.Run("duplicate email", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		in := model.SignUpInput{Email: "jane@example.com", Password: "secret1", DisplayName: "Jane Doe"}
		_, err := gateway.SignUp(ctx, in)
		require.NoError(t, err)

		_, err = gateway.SignUp(ctx, in)
		var validation *model.ValidationError
		require.ErrorAs(t, err, &validation)
		require.Equal(t, "email", validation.Field)
	})

	t.Run("invalid input never reaches the provider", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		_, err := gateway.SignUp(ctx, model.SignUpInput{Email: "nope", Password: "secret1", DisplayName: "Jane"})
		require.True(t, model.IsValidation(err))
	})

	t.Run("signup disabled", func(t *testing.T) {
		fake := NewFakeCognito()
		fake.SignupDisabled = true
		gateway := NewGateway(fake, "client-id")
		_, err := gateway.SignUp(ctx, model.SignUpInput{Email: "jane@example.com", Password: "secret1", DisplayName: "Jane"})
		var auth *model.AuthError
		require.ErrorAs(t, err, &auth)
		require.Equal(t, model.AuthCauseSignupDisabled, auth.Cause)
	})

	t.Run("rate limited", func(t *testing.T) {
		fake := NewFakeCognito()
		fake.RateLimited = true
		gateway := NewGateway(fake, "client-id")
		_, err := gateway.SignUp(ctx, model.SignUpInput{Email: "jane@example.com", Password: "secret1", DisplayName: "Jane"})
		var auth *model.AuthError
		require.ErrorAs(t, err, &auth)
		require.Equal(t, model.AuthCauseRateLimited, auth.Cause)
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns a session", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		session := signUpAndSignIn(t, gateway)
		require.NotEmpty(t, session.RefreshToken)
		require.EqualValues(t, 3600, session.ExpiresIn)
	})

	t.Run("wrong password and unknown email read the same", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		signUpAndSignIn(t, gateway)

		_, wrongPass := gateway.SignIn(ctx, "jane@example.com", "wrong")
		_, unknown := gateway.SignIn(ctx, "nobody@example.com", "secret1")

		var authA, authB *model.AuthError
		require.ErrorAs(t, wrongPass, &authA)
		require.ErrorAs(t, unknown, &authB)
		require.Equal(t, model.AuthCauseInvalidCredentials, authA.Cause)
		require.Equal(t, authA.Message, authB.Message)
	})

	t.Run("unconfirmed account", func(t *testing.T) {
		fake := NewFakeCognito()
		gateway := NewGateway(fake, "client-id")
		_, err := gateway.SignUp(ctx, model.SignUpInput{Email: "jane@example.com", Password: "secret1", DisplayName: "Jane"})
		require.NoError(t, err)
		fake.SetConfirmed("jane@example.com", false)

		_, err = gateway.SignIn(ctx, "jane@example.com", "secret1")
		var auth *model.AuthError
		require.ErrorAs(t, err, &auth)
		require.Equal(t, model.AuthCauseUnconfirmedEmail, auth.Cause)
	})
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewFakeCognito(), "client-id")
	session := signUpAndSignIn(t, gateway)

	t.Run("valid token resolves the identity", func(t *testing.T) {
		viewer, err := gateway.CurrentUser(ctx, session.AccessToken)
		require.NoError(t, err)
		require.NotNil(t, viewer)
		require.Equal(t, "jane@example.com", viewer.Email)
		require.Equal(t, "Jane Doe", viewer.Metadata.FullName)
		require.NotEmpty(t, viewer.ID)
	})

	t.Run("no token means no viewer, not an error", func(t *testing.T) {
		viewer, err := gateway.CurrentUser(ctx, "")
		require.NoError(t, err)
		require.Nil(t, viewer)
	})

	t.Run("expired token means no viewer", func(t *testing.T) {
		viewer, err := gateway.CurrentUser(ctx, "access-bogus")
		require.NoError(t, err)
		require.Nil(t, viewer)
	})
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	gateway := NewGateway(NewFakeCognito(), "client-id")
	session := signUpAndSignIn(t, gateway)

	require.NoError(t, gateway.SignOut(ctx, session.AccessToken))

	// The token is revoked everywhere, not just for this request.
	viewer, err := gateway.CurrentUser(ctx, session.AccessToken)
	require.NoError(t, err)
	require.Nil(t, viewer)

	err = gateway.SignOut(ctx, session.AccessToken)
	require.True(t, model.IsAuth(err))
}

func TestUpdateMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("patch merges into existing metadata", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		session := signUpAndSignIn(t, gateway)

		updated, err := gateway.UpdateMetadata(ctx, session.AccessToken, model.MetadataPatch{
			Bio:         aws.String("Serial founder"),
			LinkedInUrl: aws.String("https://www.linkedin.com/in/jane"),
		})
		require.NoError(t, err)
		require.Equal(t, "Serial founder", updated.Metadata.Bio)
		require.Equal(t, "https://www.linkedin.com/in/jane", updated.Metadata.LinkedInUrl)
		// Untouched fields survive the patch.
		require.Equal(t, "Jane Doe", updated.Metadata.FullName)

		updated, err = gateway.UpdateMetadata(ctx, session.AccessToken, model.MetadataPatch{
			FullName: aws.String("Jane D."),
		})
		require.NoError(t, err)
		require.Equal(t, "Jane D.", updated.Metadata.FullName)
		require.Equal(t, "Serial founder", updated.Metadata.Bio)
	})

	t.Run("empty patch still reads back the record", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		session := signUpAndSignIn(t, gateway)

		updated, err := gateway.UpdateMetadata(ctx, session.AccessToken, model.MetadataPatch{})
		require.NoError(t, err)
		require.Equal(t, "Jane Doe", updated.Metadata.FullName)
	})

	t.Run("social URLs are checked against their platform", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		session := signUpAndSignIn(t, gateway)

		_, err := gateway.UpdateMetadata(ctx, session.AccessToken, model.MetadataPatch{
			LinkedInUrl: aws.String("https://evil.example.com/in/jane"),
		})
		var validation *model.ValidationError
		require.ErrorAs(t, err, &validation)
		require.Equal(t, "linkedin_url", validation.Field)

		_, err = gateway.UpdateMetadata(ctx, session.AccessToken, model.MetadataPatch{
			TwitterUrl: aws.String("https://linkedin.com/jane"),
		})
		require.ErrorAs(t, err, &validation)
		require.Equal(t, "twitter_url", validation.Field)

		// x.com counts as Twitter, bare domains get a scheme prepended.
		_, err = gateway.UpdateMetadata(ctx, session.AccessToken, model.MetadataPatch{
			TwitterUrl: aws.String("x.com/jane"),
		})
		require.NoError(t, err)
	})

	t.Run("stale token", func(t *testing.T) {
		gateway := NewGateway(NewFakeCognito(), "client-id")
		_, err := gateway.UpdateMetadata(ctx, "access-bogus", model.MetadataPatch{
			Bio: aws.String("anything"),
		})
		var auth *model.AuthError
		require.ErrorAs(t, err, &auth)
		require.Equal(t, model.AuthCauseUnauthenticated, auth.Cause)
	})
}

func TestIsSocialURL(t *testing.T) {
	require.True(t, isSocialURL("https://linkedin.com/in/jane", "linkedin.com"))
	require.True(t, isSocialURL("https://www.linkedin.com/in/jane", "linkedin.com"))
	require.True(t, isSocialURL("linkedin.com/in/jane", "linkedin.com"))
	require.True(t, isSocialURL("x.com/jane", "twitter.com", "x.com"))
	require.False(t, isSocialURL("https://notlinkedin.com/in/jane", "linkedin.com"))
	require.False(t, isSocialURL("https://linkedin.com.evil.com/jane", "linkedin.com"))
	require.False(t, isSocialURL("", "linkedin.com"))
}

func TestDisplayName(t *testing.T) {
	named := &Identity{Email: "jane@example.com", Metadata: Metadata{FullName: "Jane Doe"}}
	require.Equal(t, "Jane Doe", named.DisplayName())

	fallback := &Identity{Email: "jane@example.com"}
	require.Equal(t, "jane", fallback.DisplayName())

	odd := &Identity{Email: "jane"}
	require.Equal(t, "jane", odd.DisplayName())
}
