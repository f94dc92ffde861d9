package provider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI is the subset of the Cognito user pool admin API used here.
// *cognitoidentityprovider.Client satisfies it.
type CognitoAPI interface {
	AdminCreateUser(ctx context.Context, params *cip.AdminCreateUserInput, optFns ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error)
	AdminSetUserPassword(ctx context.Context, params *cip.AdminSetUserPasswordInput, optFns ...func(*cip.Options)) (*cip.AdminSetUserPasswordOutput, error)
	AdminAddUserToGroup(ctx context.Context, params *cip.AdminAddUserToGroupInput, optFns ...func(*cip.Options)) (*cip.AdminAddUserToGroupOutput, error)
	AdminDeleteUser(ctx context.Context, params *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
	ListUsers(ctx context.Context, params *cip.ListUsersInput, optFns ...func(*cip.Options)) (*cip.ListUsersOutput, error)
}

// NewCognitoClient builds a Cognito client from the default AWS credential chain.
// A non-empty endpoint overrides the service endpoint (local emulators).
func NewCognitoClient(ctx context.Context, region, endpoint string) (*cip.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return cip.NewFromConfig(cfg, func(o *cip.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// CognitoIdentityProvider provisions identities in a Cognito user pool. The
// account email is used as the username.
type CognitoIdentityProvider struct {
	client     CognitoAPI
	userPoolID string
	pageSize   int32
}

// NewCognitoIdentityProvider creates a provider bound to userPoolID.
func NewCognitoIdentityProvider(client CognitoAPI, userPoolID string) *CognitoIdentityProvider {
	return &CognitoIdentityProvider{
		client:     client,
		userPoolID: userPoolID,
		pageSize:   60,
	}
}

// CreateIdentity creates the account without a credential. Cognito's invitation
// message is suppressed; the credential is set separately.
func (p *CognitoIdentityProvider) CreateIdentity(ctx context.Context, email, name string) (*Identity, error) {
	out, err := p.client.AdminCreateUser(ctx, &cip.AdminCreateUserInput{
		UserPoolId:    aws.String(p.userPoolID),
		Username:      aws.String(email),
		MessageAction: types.MessageActionTypeSuppress,
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
			{Name: aws.String("name"), Value: aws.String(name)},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	})
	if err != nil {
		return nil, err
	}

	if out.User == nil {
		return &Identity{Username: email}, nil
	}

	return toIdentity(*out.User), nil
}

// SetCredential sets a permanent password for the account.
func (p *CognitoIdentityProvider) SetCredential(ctx context.Context, email, password string) error {
	_, err := p.client.AdminSetUserPassword(ctx, &cip.AdminSetUserPasswordInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(email),
		Password:   aws.String(password),
		Permanent:  true,
	})
	return err
}

// AssignToGroups adds the account to each group in order, stopping at the first failure.
func (p *CognitoIdentityProvider) AssignToGroups(ctx context.Context, email string, groups []string) error {
	for _, group := range groups {
		if _, err := p.client.AdminAddUserToGroup(ctx, &cip.AdminAddUserToGroupInput{
			UserPoolId: aws.String(p.userPoolID),
			Username:   aws.String(email),
			GroupName:  aws.String(group),
		}); err != nil {
			return err
		}
	}
	return nil
}

// ListIdentities calls fn for every account in the pool, page by page.
func (p *CognitoIdentityProvider) ListIdentities(ctx context.Context, fn func(*Identity) error) error {
	paginator := cip.NewListUsersPaginator(p.client, &cip.ListUsersInput{
		UserPoolId: aws.String(p.userPoolID),
		Limit:      aws.Int32(p.pageSize),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}

		for _, user := range page.Users {
			if err := fn(toIdentity(user)); err != nil {
				return err
			}
		}
	}

	return nil
}

// DeleteIdentity removes the account with the given username.
func (p *CognitoIdentityProvider) DeleteIdentity(ctx context.Context, username string) error {
	_, err := p.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(p.userPoolID),
		Username:   aws.String(username),
	})
	return err
}

func toIdentity(user types.UserType) *Identity {
	identity := &Identity{
		Username: aws.ToString(user.Username),
		Status:   string(user.UserStatus),
		Enabled:  user.Enabled,
	}
	if user.UserCreateDate != nil {
		identity.CreatedAt = *user.UserCreateDate
	}

	identity.Attributes = make([]Attribute, 0, len(user.Attributes))
	for _, attr := range user.Attributes {
		identity.Attributes = append(identity.Attributes, Attribute{
			Name:  aws.ToString(attr.Name),
			Value: aws.ToString(attr.Value),
		})
	}

	return identity
}
