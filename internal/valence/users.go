package valence

import (
	"context"

	"valence-go/internal/client"
)

// Activation reports whether a user account is active.
type Activation struct {
	IsActive bool
}

// UserData is a user record as administrators see it.
type UserData struct {
	OrgId            int64
	UserId           int64
	FirstName        string
	MiddleName       string
	LastName         string
	UserName         string
	ExternalEmail    string
	OrgDefinedId     string
	UniqueIdentifier string
	Activation       Activation
}

// WhoAmIUser identifies the user the calling context acts for.
type WhoAmIUser struct {
	Identifier        string
	FirstName         string
	LastName          string
	UniqueName        string
	ProfileIdentifier string
}

// User is the compact user block embedded in other structures.
type User struct {
	Identifier        string
	DisplayName       string
	EmailAddress      string
	OrgDefinedId      string
	ProfileBadgeUrl   string
	ProfileIdentifier string
}

// CreateUserData is the body of a user create.
type CreateUserData struct {
	OrgDefinedId      string
	FirstName         string
	MiddleName        string
	LastName          string
	ExternalEmail     *string
	UserName          string
	RoleId            int64
	IsActive          bool
	SendCreationEmail bool
}

// UpdateUserData is the body of a user update.
type UpdateUserData struct {
	OrgDefinedId  string
	FirstName     string
	MiddleName    string
	LastName      string
	ExternalEmail *string
	UserName      string
	Activation    Activation
}

// UserPasswordData is the body of a password change.
type UserPasswordData struct {
	Password string
}

func (s *Service) DeleteUser(ctx context.Context, userID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/users/%d", userID), opts))
}

// ListUsers returns one page of all users.
func (s *Service) ListUsers(ctx context.Context, bookmark string, opts ...client.Option) (*PagedResultSet[UserData], error) {
	opts = withQuery(opts, "bookmark", bookmark)
	return decodePtr[PagedResultSet[UserData]](s.get(ctx, lp("1.0", opts, "/users/"), opts))
}

// UserByUserName looks a single user up by user name.
func (s *Service) UserByUserName(ctx context.Context, userName string, opts ...client.Option) (*UserData, error) {
	opts = withQuery(opts, "userName", userName)
	return decodePtr[UserData](s.get(ctx, lp("1.0", opts, "/users/"), opts))
}

// UsersByOrgDefinedID returns every user carrying an org-defined id.
func (s *Service) UsersByOrgDefinedID(ctx context.Context, orgDefinedID string, opts ...client.Option) ([]UserData, error) {
	opts = withQuery(opts, "orgDefinedId", orgDefinedID)
	return decode[[]UserData](s.get(ctx, lp("1.0", opts, "/users/"), opts))
}

func (s *Service) User(ctx context.Context, userID int64, opts ...client.Option) (*UserData, error) {
	return decodePtr[UserData](s.get(ctx, lp("1.0", opts, "/users/%d", userID), opts))
}

// WhoAmI describes the user the context is authenticated as.
func (s *Service) WhoAmI(ctx context.Context, opts ...client.Option) (*WhoAmIUser, error) {
	return decodePtr[WhoAmIUser](s.get(ctx, lp("1.0", opts, "/users/whoami"), opts))
}

func (s *Service) CreateUser(ctx context.Context, data CreateUserData, opts ...client.Option) (*UserData, error) {
	return decodePtr[UserData](s.postJSON(ctx, lp("1.0", opts, "/users/"), data, opts))
}

func (s *Service) UpdateUser(ctx context.Context, userID int64, data UpdateUserData, opts ...client.Option) (*UserData, error) {
	return decodePtr[UserData](s.putJSON(ctx, lp("1.0", opts, "/users/%d", userID), data, opts))
}

func (s *Service) UserActivation(ctx context.Context, userID int64, opts ...client.Option) (*Activation, error) {
	return decodePtr[Activation](s.get(ctx, lp("1.0", opts, "/users/%d/activation", userID), opts))
}

func (s *Service) UpdateUserActivation(ctx context.Context, userID int64, data Activation, opts ...client.Option) error {
	return discard(s.putJSON(ctx, lp("1.0", opts, "/users/%d/activation", userID), data, opts))
}

// DeletePassword clears a user's password.
func (s *Service) DeletePassword(ctx context.Context, userID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/users/%d/password", userID), opts))
}

// SendPasswordResetEmail asks the server to mail the user a reset link.
func (s *Service) SendPasswordResetEmail(ctx context.Context, userID int64, opts ...client.Option) error {
	return discard(s.postJSON(ctx, lp("1.0", opts, "/users/%d/password", userID), nil, opts))
}

func (s *Service) UpdatePassword(ctx context.Context, userID int64, password string, opts ...client.Option) error {
	return discard(s.putJSON(ctx, lp("1.0", opts, "/users/%d/password", userID), UserPasswordData{Password: password}, opts))
}
