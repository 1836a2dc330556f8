package user

import (
	"context"
	"strings"

	"foodgram/internal/apperr"
	"foodgram/internal/paging"
	"foodgram/internal/validation"
)

// Service implements account operations on top of the repository.
type Service struct {
	repo *Repository
}

// NewService creates a new user service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an account from in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}

	emailTaken, usernameTaken, err := s.repo.Taken(ctx, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	fields := apperr.FieldErrors{}
	if emailTaken {
		fields.Add("email", "A user with that email already exists.")
	}
	if usernameTaken {
		fields.Add("username", "A user with that username already exists.")
	}
	if err := fields.Err(); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user matching the credentials.
func (s *Service) Authenticate(ctx context.Context, in Credentials) (*User, error) {
	if err := validation.ValidateStruct(in); err != nil {
		return nil, err
	}
	invalid := apperr.Invalid("non_field_errors", "Unable to log in with provided credentials.")

	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(u.PasswordHash, in.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invalid
	}
	return u, nil
}

// SetPassword replaces the password of userID after checking the current one.
func (s *Service) SetPassword(ctx context.Context, userID int64, in PasswordChange) error {
	if err := validation.ValidateStruct(in); err != nil {
		return err
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := CheckPassword(u.PasswordHash, in.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Invalid("current_password", "Invalid password.")
	}

	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// Profile returns user id as seen by viewerID.
func (s *Service) Profile(ctx context.Context, viewerID, id int64) (*Profile, error) {
	return s.repo.Profile(ctx, viewerID, id)
}

// List returns one page of profiles and the total user count.
func (s *Service) List(ctx context.Context, viewerID int64, p paging.Page) ([]Profile, int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	profiles, err := s.repo.ListProfiles(ctx, viewerID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Exists reports whether the account id is still present.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
