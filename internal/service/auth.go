package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/devfolio/devfolio-api/internal/crypto"
	"github.com/devfolio/devfolio-api/internal/model"
	"github.com/devfolio/devfolio-api/internal/repository"
	"github.com/devfolio/devfolio-api/internal/storage"
	"github.com/devfolio/devfolio-api/internal/token"
)

var (
	ErrLoginIDTaken       = errors.New("user id already taken")
	ErrNicknameTaken      = errors.New("nickname already taken")
	ErrInvalidCredentials = errors.New("invalid user id or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService orchestrates the session lifecycle: signup, signin, token
// refresh, profile management, and account deletion.
//
// Tokens are stateless; nothing is persisted per session and logout is
// purely a cookie-clearing operation at the HTTP layer. A consequence worth
// knowing: a refresh token issued before logout or account deletion stays
// cryptographically valid until its natural expiry.
type AuthService struct {
	repo   repository.UserRepository
	hasher *crypto.Hasher
	codec  *token.Codec
	images storage.ImageStore
}

func NewAuthService(repo repository.UserRepository, hasher *crypto.Hasher, codec *token.Codec, images storage.ImageStore) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		codec:  codec,
		images: images,
	}
}

// SignUp validates the request, creates the account, and mints both tokens.
// If an image was uploaded but the insert fails afterwards, the upload is
// deleted again so no orphan is left behind.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest, image *model.ImageUpload) (*model.AuthResult, error) {
	var violations []string
	violations = append(violations, validateLoginID(req.LoginID)...)
	violations = append(violations, validateNickname(req.Nickname)...)
	violations = append(violations, validatePassword(req.Password)...)
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if _, err := s.repo.GetByLoginID(ctx, req.LoginID); err == nil {
		return nil, ErrLoginIDTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetByNickname(ctx, req.Nickname); err == nil {
		return nil, ErrNicknameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	var imageURL *string
	if image != nil {
		url, err := s.images.Save(ctx, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		imageURL = &url
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.cleanupImage(ctx, imageURL)
		return nil, err
	}

	user := &model.User{
		LoginID:      req.LoginID,
		Nickname:     req.Nickname,
		PasswordHash: hash,
		ProfileImage: imageURL,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.cleanupImage(ctx, imageURL)
		// The pre-checks can race with a concurrent signup; the unique
		// constraints are the authority.
		switch {
		case errors.Is(err, repository.ErrDuplicateLoginID):
			return nil, ErrLoginIDTaken
		case errors.Is(err, repository.ErrDuplicateNickname):
			return nil, ErrNicknameTaken
		}
		return nil, err
	}

	return s.mintTokens(user)
}

// SignIn verifies the credentials and mints both tokens. Unknown user and
// wrong password both come back as ErrInvalidCredentials, and both paths
// run a bcrypt comparison so they take comparable time.
func (s *AuthService) SignIn(ctx context.Context, req model.SignInRequest) (*model.AuthResult, error) {
	user, err := s.repo.GetByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.mintTokens(user)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays usable until expiry. Only
// the subject id embedded in the token is trusted; the user is re-loaded
// from the database before a new token is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.RefreshResult, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		slog.Debug("refresh token rejected", "reason", err)
		return nil, ErrUnauthorized
	}

	if claims.Kind != token.KindRefresh {
		slog.Debug("refresh token rejected", "reason", "wrong token kind", "kind", claims.Kind)
		return nil, ErrUnauthorized
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	access, err := s.codec.IssueAccess(user.ID, user.LoginID)
	if err != nil {
		return nil, err
	}

	return &model.RefreshResult{User: user.Response(), AccessToken: access}, nil
}

// GetUser returns the safe representation of a user.
func (s *AuthService) GetUser(ctx context.Context, id int64) (model.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}
	return user.Response(), nil
}

// UpdateProfile changes the nickname and, depending on the request,
// replaces, removes, or leaves the profile image:
//   - explicit null removes the stored image,
//   - a new URL replaces it (deleting the old one),
//   - an omitted field leaves it untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (model.UserResponse, error) {
	if violations := validateNickname(req.Nickname); len(violations) > 0 {
		return model.UserResponse{}, &ValidationError{Violations: violations}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	if req.Nickname != user.Nickname {
		if _, err := s.repo.GetByNickname(ctx, req.Nickname); err == nil {
			return model.UserResponse{}, ErrNicknameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, err
		}
	}

	img := req.ProfileImage
	switch {
	case img.Set && !img.Valid:
		if user.ProfileImage != nil {
			s.cleanupImage(ctx, user.ProfileImage)
			user.ProfileImage = nil
		}
	case img.Set && img.Valid:
		if user.ProfileImage == nil || *user.ProfileImage != img.Value {
			s.cleanupImage(ctx, user.ProfileImage)
			v := img.Value
			user.ProfileImage = &v
		}
	}

	user.Nickname = req.Nickname

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateNickname) {
			return model.UserResponse{}, ErrNicknameTaken
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return user.Response(), nil
}

// CheckNickname reports whether a nickname is still available.
func (s *AuthService) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	_, err := s.repo.GetByNickname(ctx, nickname)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// DeleteAccount re-verifies the password before removing the account and
// its stored profile image. A wrong password leaves everything untouched.
func (s *AuthService) DeleteAccount(ctx context.Context, userID int64, password string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return ErrUnauthorized
	}

	if user.ProfileImage != nil {
		s.cleanupImage(ctx, user.ProfileImage)
	}

	if err := s.repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// UploadImage stores a profile image and returns its URL.
func (s *AuthService) UploadImage(ctx context.Context, image model.ImageUpload) (string, error) {
	return s.images.Save(ctx, image.Filename, image.Content)
}

// cleanupImage deletes a stored image, logging failures instead of
// propagating them: the caller's original outcome is the one that matters.
func (s *AuthService) cleanupImage(ctx context.Context, url *string) {
	if url == nil {
		return
	}
	if err := s.images.Delete(ctx, *url); err != nil {
		slog.Error("failed to delete profile image", "url", *url, "error", err)
	}
}

func (s *AuthService) mintTokens(user *model.User) (*model.AuthResult, error) {
	access, err := s.codec.IssueAccess(user.ID, user.LoginID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(user.ID, user.LoginID)
	if err != nil {
		return nil, err
	}

	return &model.AuthResult{
		User:         user.Response(),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
