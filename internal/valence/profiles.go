package valence

import (
	"context"
	"strings"

	"valence-go/internal/client"
	"valence-go/internal/upload"
)

// Birthday is a month and day without a year.
type Birthday struct {
	Month int
	Day   int
}

// SocialMediaUrl is a named link on a user profile.
type SocialMediaUrl struct {
	Name string
	Url  string
}

// UserProfile is a user's public profile.
type UserProfile struct {
	Nickname        string
	Birthday        *Birthday
	HomeTown        string
	Email           string
	HomePage        string
	HomePhone       string
	BusinessPhone   string
	MobilePhone     string
	FaxNumber       string
	Address1        string
	Address2        string
	City            string
	Province        string
	PostalCode      string
	Country         string
	Company         string
	JobTitle        string
	HighSchool      string
	University      string
	Hobbies         string
	FavMusic        string
	FavTVShows      string
	FavMovies       string
	FavBooks        string
	FavQuotations   string
	FavWebSites     string
	FutureGoals     string
	FavMemory       string
	SocialMediaUrls []SocialMediaUrl
}

// SocialMediaURLs returns the entries whose name contains name.
func (p *UserProfile) SocialMediaURLs(name string) []SocialMediaUrl {
	var out []SocialMediaUrl
	for _, u := range p.SocialMediaUrls {
		if strings.Contains(u.Name, name) {
			out = append(out, u)
		}
	}
	return out
}

// RemoveSocialMediaURL drops every entry whose name contains name.
func (p *UserProfile) RemoveSocialMediaURL(name string) {
	kept := p.SocialMediaUrls[:0]
	for _, u := range p.SocialMediaUrls {
		if !strings.Contains(u.Name, name) {
			kept = append(kept, u)
		}
	}
	p.SocialMediaUrls = kept
}

func (s *Service) MyProfile(ctx context.Context, opts ...client.Option) (*UserProfile, error) {
	return decodePtr[UserProfile](s.get(ctx, lp("1.0", opts, "/profile/myProfile"), opts))
}

func (s *Service) ProfileByProfileID(ctx context.Context, profileID string, opts ...client.Option) (*UserProfile, error) {
	return decodePtr[UserProfile](s.get(ctx, lp("1.0", opts, "/profile/%s", profileID), opts))
}

func (s *Service) ProfileByUserID(ctx context.Context, userID int64, opts ...client.Option) (*UserProfile, error) {
	return decodePtr[UserProfile](s.get(ctx, lp("1.0", opts, "/profile/user/%d", userID), opts))
}

func (s *Service) UpdateMyProfile(ctx context.Context, profile UserProfile, opts ...client.Option) (*UserProfile, error) {
	return decodePtr[UserProfile](s.putJSON(ctx, lp("1.0", opts, "/profile/myProfile"), profile, opts))
}

// MyProfileImage returns the raw image bytes with their content type.
func (s *Service) MyProfileImage(ctx context.Context, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, lp("1.0", opts, "/profile/myProfile/image"), opts)
}

func (s *Service) ProfileImageByProfileID(ctx context.Context, profileID string, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, lp("1.0", opts, "/profile/%s/image", profileID), opts)
}

func (s *Service) ProfileImageByUserID(ctx context.Context, userID int64, opts ...client.Option) (*client.Content, error) {
	return s.get(ctx, lp("1.0", opts, "/profile/user/%d/image", userID), opts)
}

func (s *Service) DeleteMyProfileImage(ctx context.Context, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/profile/myProfile/image"), opts))
}

func (s *Service) DeleteProfileImageByProfileID(ctx context.Context, profileID string, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/profile/%s/image", profileID), opts))
}

func (s *Service) DeleteProfileImageByUserID(ctx context.Context, userID int64, opts ...client.Option) error {
	return discard(s.del(ctx, lp("1.0", opts, "/profile/user/%d/image", userID), opts))
}

func (s *Service) UpdateMyProfileImage(ctx context.Context, f *upload.File, opts ...client.Option) error {
	return s.postProfileImage(ctx, lp("1.0", opts, "/profile/myProfile/image"), f, opts)
}

func (s *Service) UpdateProfileImageByProfileID(ctx context.Context, profileID string, f *upload.File, opts ...client.Option) error {
	return s.postProfileImage(ctx, lp("1.0", opts, "/profile/%s/image", profileID), f, opts)
}

func (s *Service) UpdateProfileImageByUserID(ctx context.Context, userID int64, f *upload.File, opts ...client.Option) error {
	return s.postProfileImage(ctx, lp("1.0", opts, "/profile/user/%d/image", userID), f, opts)
}

func (s *Service) postProfileImage(ctx context.Context, route string, f *upload.File, opts []client.Option) error {
	body, err := upload.EncodeFormFile("profileImage", f)
	if err != nil {
		return err
	}
	return discard(s.client.Post(ctx, s.uc, route, body, opts...))
}
