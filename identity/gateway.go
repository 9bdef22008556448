package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sinkedin/sinkedin/model"
	Logger "github.com/sinkedin/sinkedin/utils/log"
)

// Cognito attribute names holding profile metadata. full_name maps to the
// standard "name" attribute, free-form fields live under custom attributes.
const (
	attrSub      = "sub"
	attrEmail    = "email"
	attrName     = "name"
	attrPicture  = "picture"
	attrBio      = "custom:bio"
	attrLinkedIn = "custom:linkedin_url"
	attrTwitter  = "custom:twitter_url"
)

// Identity is the structured view of the provider's user record. The
// provider stores metadata as an open attribute map, this type pins down
// the fields the application actually uses.
type Identity struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Metadata Metadata `json:"metadata"`
}

// Metadata is the profile metadata kept on the identity itself.
type Metadata struct {
	FullName          string `json:"full_name,omitempty"`
	Bio               string `json:"bio,omitempty"`
	LinkedInUrl       string `json:"linkedin_url,omitempty"`
	TwitterUrl        string `json:"twitter_url,omitempty"`
	ProfilePictureUrl string `json:"profile_picture_url,omitempty"`
}

// Session is the token set returned by a successful sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token"`
	ExpiresIn    int32  `json:"expires_in"`
}

// Gateway wraps the identity provider. It is constructed with the client it
// should use, nothing in this package reaches for ambient global state.
type Gateway struct {
	api      CognitoAPI
	clientID string
}

func NewGateway(api CognitoAPI, clientID string) *Gateway {
	return &Gateway{api: api, clientID: clientID}
}

// CurrentUser resolves an access token to its identity. A missing or
// expired session is not an error, the caller is simply unauthenticated.
// Genuine transport failures are logged but still reported as "no user", a
// broken identity provider must never crash a page load.
func (g *Gateway) CurrentUser(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, nil
	}

	out, err := g.api.GetUser(ctx, &cognitoidentityprovider.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		if !errors.As(err, &notAuthorized) {
			Logger.Log.Warn("fail to get current user: ", err)
		}
		return nil, nil
	}

	return identityFromAttributes(aws.ToString(out.Username), out.UserAttributes), nil
}

// SignUp registers a new account. The new identity's metadata carries
// full_name = displayName.
func (g *Gateway) SignUp(ctx context.Context, in model.SignUpInput) (*Identity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	out, err := g.api.SignUp(ctx, &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(g.clientID),
		Username: aws.String(in.Email),
		Password: aws.String(in.Password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String(attrEmail), Value: aws.String(in.Email)},
			{Name: aws.String(attrName), Value: aws.String(in.DisplayName)},
		},
	})
	if err != nil {
		return nil, mapSignUpError(err)
	}

	return &Identity{
		ID:       aws.ToString(out.UserSub),
		Email:    in.Email,
		Metadata: Metadata{FullName: in.DisplayName},
	}, nil
}

// SignIn exchanges credentials for a session. Each provider rejection is
// mapped to a distinct cause so the UI can tell "wrong password" from
// "confirm your email first" from "slow down".
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Session, error) {
	out, err := g.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(g.clientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	})
	if err != nil {
		return nil, mapSignInError(err)
	}
	if out.AuthenticationResult == nil {
		// Challenge flows (MFA, forced password reset) are not supported.
		return nil, model.NewAuthError(model.AuthCauseInvalidCredentials,
			"Login failed. Please check your credentials and try again.")
	}

	result := out.AuthenticationResult
	return &Session{
		AccessToken:  aws.ToString(result.AccessToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		IDToken:      aws.ToString(result.IdToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// SignOut revokes every session of the token's user. Callers clear their
// cached identity regardless of the outcome.
func (g *Gateway) SignOut(ctx context.Context, accessToken string) error {
	_, err := g.api.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		return model.NewAuthError(model.AuthCauseUnauthenticated,
			"Sign out did not complete. Your local session has been cleared.")
	}
	return nil
}

// UpdateMetadata merges the patch into the identity's metadata. Social URLs
// are validated against their platform's domain before anything is sent to
// the provider.
func (g *Gateway) UpdateMetadata(ctx context.Context, accessToken string, patch model.MetadataPatch) (*Identity, error) {
	attrs, err := attributesFromPatch(patch)
	if err != nil {
		return nil, err
	}

	if len(attrs) > 0 {
		_, err = g.api.UpdateUserAttributes(ctx, &cognitoidentityprovider.UpdateUserAttributesInput{
			AccessToken:    aws.String(accessToken),
			UserAttributes: attrs,
		})
		if err != nil {
			var notAuthorized *types.NotAuthorizedException
			if errors.As(err, &notAuthorized) {
				return nil, model.NewAuthError(model.AuthCauseUnauthenticated,
					"Your session has expired. Please sign in again.")
			}
			var invalidParam *types.InvalidParameterException
			if errors.As(err, &invalidParam) {
				return nil, model.NewValidationError("metadata", "Failed to update profile. Please try again.")
			}
			return nil, model.NewAuthError(model.AuthCauseUnauthenticated, "Failed to update profile. Please try again.")
		}
	}

	// Read back the merged record rather than patching a local copy, the
	// provider is the source of truth for metadata.
	out, err := g.api.GetUser(ctx, &cognitoidentityprovider.GetUserInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		return nil, model.NewAuthError(model.AuthCauseUnauthenticated,
			"Your session has expired. Please sign in again.")
	}
	return identityFromAttributes(aws.ToString(out.Username), out.UserAttributes), nil
}

func attributesFromPatch(patch model.MetadataPatch) ([]types.AttributeType, error) {
	var attrs []types.AttributeType

	appendAttr := func(name string, value *string) {
		if value != nil {
			attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(strings.TrimSpace(*value))})
		}
	}

	if patch.LinkedInUrl != nil && *patch.LinkedInUrl != "" {
		if !isSocialURL(*patch.LinkedInUrl, "linkedin.com") {
			return nil, model.NewValidationError("linkedin_url", "Please enter a valid LinkedIn URL")
		}
	}
	if patch.TwitterUrl != nil && *patch.TwitterUrl != "" {
		if !isSocialURL(*patch.TwitterUrl, "twitter.com", "x.com") {
			return nil, model.NewValidationError("twitter_url", "Please enter a valid Twitter/X URL")
		}
	}

	appendAttr(attrName, patch.FullName)
	appendAttr(attrBio, patch.Bio)
	appendAttr(attrLinkedIn, patch.LinkedInUrl)
	appendAttr(attrTwitter, patch.TwitterUrl)
	appendAttr(attrPicture, patch.ProfilePictureUrl)
	return attrs, nil
}

// isSocialURL reports whether raw parses as a URL whose host is one of the
// given domains or a subdomain of one ("www.linkedin.com" counts).
func isSocialURL(raw string, domains ...string) bool {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func identityFromAttributes(username string, attrs []types.AttributeType) *Identity {
	identity := Identity{ID: username}
	for _, attr := range attrs {
		value := aws.ToString(attr.Value)
		switch aws.ToString(attr.Name) {
		case attrSub:
			identity.ID = value
		case attrEmail:
			identity.Email = value
		case attrName:
			identity.Metadata.FullName = value
		case attrBio:
			identity.Metadata.Bio = value
		case attrLinkedIn:
			identity.Metadata.LinkedInUrl = value
		case attrTwitter:
			identity.Metadata.TwitterUrl = value
		case attrPicture:
			identity.Metadata.ProfilePictureUrl = value
		}
	}
	return &identity
}

// DisplayName is the name content joins should show for this identity,
// falling back to the mailbox part of the email when no name is set.
func (id *Identity) DisplayName() string {
	if id.Metadata.FullName != "" {
		return id.Metadata.FullName
	}
	if at := strings.IndexByte(id.Email, '@'); at > 0 {
		return id.Email[:at]
	}
	return id.Email
}

func mapSignUpError(err error) error {
	var usernameExists *types.UsernameExistsException
	if errors.As(err, &usernameExists) {
		return model.NewValidationError("email", "An account with this email already exists. Try signing in instead.")
	}
	var invalidPassword *types.InvalidPasswordException
	if errors.As(err, &invalidPassword) {
		return model.NewValidationError("password", "Password does not meet the security requirements.")
	}
	var invalidParam *types.InvalidParameterException
	if errors.As(err, &invalidParam) {
		return model.NewValidationError("email", "Please enter a valid email address")
	}
	var tooMany *types.TooManyRequestsException
	var limitExceeded *types.LimitExceededException
	if errors.As(err, &tooMany) || errors.As(err, &limitExceeded) {
		return model.NewAuthError(model.AuthCauseRateLimited,
			"Too many attempts. Please wait a moment before trying again.")
	}
	var notAuthorized *types.NotAuthorizedException
	if errors.As(err, &notAuthorized) {
		return model.NewAuthError(model.AuthCauseSignupDisabled,
			"Account creation is currently disabled. Please contact support.")
	}
	Logger.Log.Error("unexpected sign-up failure: ", err)
	return model.NewValidationError("email", "Failed to create account. Please try again.")
}

func mapSignInError(err error) error {
	var userNotConfirmed *types.UserNotConfirmedException
	if errors.As(err, &userNotConfirmed) {
		return model.NewAuthError(model.AuthCauseUnconfirmedEmail,
			"Please check your email and confirm your account before logging in.")
	}
	var tooMany *types.TooManyRequestsException
	var limitExceeded *types.LimitExceededException
	if errors.As(err, &tooMany) || errors.As(err, &limitExceeded) {
		return model.NewAuthError(model.AuthCauseRateLimited,
			"Too many attempts. Please wait a moment before trying again.")
	}
	// NotAuthorized and UserNotFound collapse into one message on purpose,
	// sign-in must not reveal whether the email exists.
	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	if errors.As(err, &notAuthorized) || errors.As(err, &userNotFound) {
		return model.NewAuthError(model.AuthCauseInvalidCredentials,
			"Invalid email or password. Please check your credentials and try again.")
	}
	Logger.Log.Error("unexpected sign-in failure: ", err)
	return model.NewAuthError(model.AuthCauseInvalidCredentials,
		"Login failed. Please check your credentials and try again.")
}
