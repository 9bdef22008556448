package identity

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/google/uuid"
)

type fakeAccount struct {
	sub        string
	email      string
	password   string
	confirmed  bool
	attributes map[string]string
}

// FakeCognito is an in-memory CognitoAPI for tests and local development.
// It honors the same error types the real provider returns so gateway error
// mapping can be exercised without AWS.
type FakeCognito struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount // keyed by username (email)
	tokens   map[string]string       // access token -> username

	// Failure knobs.
	SignupDisabled bool
	RateLimited    bool
}

func NewFakeCognito() *FakeCognito {
	return &FakeCognito{
		accounts: make(map[string]*fakeAccount),
		tokens:   make(map[string]string),
	}
}

// SetConfirmed flips the email-confirmation state of an account.
func (f *FakeCognito) SetConfirmed(email string, confirmed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[email]; ok {
		account.confirmed = confirmed
	}
}

func (f *FakeCognito) SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.RateLimited {
		return nil, &types.TooManyRequestsException{}
	}
	if f.SignupDisabled {
		return nil, &types.NotAuthorizedException{}
	}

	username := aws.ToString(params.Username)
	if _, exists := f.accounts[username]; exists {
		return nil, &types.UsernameExistsException{}
	}

	account := &fakeAccount{
		sub:        uuid.New().String(),
		email:      username,
		password:   aws.ToString(params.Password),
		confirmed:  true,
		attributes: make(map[string]string),
	}
	for _, attr := range params.UserAttributes {
		account.attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}
	f.accounts[username] = account

	return &cognitoidentityprovider.SignUpOutput{
		UserSub:       aws.String(account.sub),
		UserConfirmed: true,
	}, nil
}

func (f *FakeCognito) InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.RateLimited {
		return nil, &types.TooManyRequestsException{}
	}

	username := params.AuthParameters["USERNAME"]
	password := params.AuthParameters["PASSWORD"]

	account, ok := f.accounts[username]
	if !ok {
		return nil, &types.UserNotFoundException{}
	}
	if account.password != password {
		return nil, &types.NotAuthorizedException{}
	}
	if !account.confirmed {
		return nil, &types.UserNotConfirmedException{}
	}

	token := "access-" + uuid.New().String()
	f.tokens[token] = username

	return &cognitoidentityprovider.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String(token),
			RefreshToken: aws.String("refresh-" + token),
			IdToken:      aws.String("id-" + token),
			ExpiresIn:    3600,
		},
	}, nil
}

func (f *FakeCognito) GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token := aws.ToString(params.AccessToken)
	username, ok := f.tokens[token]
	if !ok {
		return nil, &types.NotAuthorizedException{}
	}
	for candidate, owner := range f.tokens {
		if owner == username {
			delete(f.tokens, candidate)
		}
	}
	return &cognitoidentityprovider.GlobalSignOutOutput{}, nil
}

func (f *FakeCognito) GetUser(ctx context.Context, params *cognitoidentityprovider.GetUserInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GetUserOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, err := f.accountForToken(aws.ToString(params.AccessToken))
	if err != nil {
		return nil, err
	}

	attrs := []types.AttributeType{
		{Name: aws.String(attrSub), Value: aws.String(account.sub)},
		{Name: aws.String(attrEmail), Value: aws.String(account.email)},
	}
	for name, value := range account.attributes {
		if name == attrEmail {
			continue
		}
		attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(value)})
	}

	return &cognitoidentityprovider.GetUserOutput{
		Username:       aws.String(account.email),
		UserAttributes: attrs,
	}, nil
}

func (f *FakeCognito) UpdateUserAttributes(ctx context.Context, params *cognitoidentityprovider.UpdateUserAttributesInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.UpdateUserAttributesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	account, err := f.accountForToken(aws.ToString(params.AccessToken))
	if err != nil {
		return nil, err
	}
	for _, attr := range params.UserAttributes {
		account.attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}
	return &cognitoidentityprovider.UpdateUserAttributesOutput{}, nil
}

func (f *FakeCognito) accountForToken(token string) (*fakeAccount, error) {
	username, ok := f.tokens[token]
	if !ok {
		return nil, &types.NotAuthorizedException{}
	}
	account, ok := f.accounts[username]
	if !ok {
		return nil, &types.NotAuthorizedException{}
	}
	return account, nil
}
