package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/sakif/review-hub/internal/apperror"
	"github.com/sakif/review-hub/internal/auth"
	"github.com/sakif/review-hub/internal/model"
	"github.com/sakif/review-hub/internal/repository"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// msgInvalidCredentials is shared by "no such email" and "wrong password" so
// login does not reveal which emails are registered.
const msgInvalidCredentials = "invalid credentials"

// RegisterInput is the body of POST /users.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the body of POST /auth.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService registers users and issues tokens.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                                 ↘ TokenService (JWT), PasswordService (bcrypt)
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required.Error("name is required")),
		validation.Field(&in.Email,
			validation.Required.Error("please include a valid email"),
			is.EmailFormat.Error("please include a valid email")),
		validation.Field(&in.Password,
			validation.Required.Error("please enter a password with 8 or more characters"),
			validation.RuneLength(MinPasswordLength, 0).Error("please enter a password with 8 or more characters")),
	)
	if err != nil {
		return "", validationError(err)
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return "", apperror.Conflict("user already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("service/auth: looking up %s: %w", in.Email, err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", apperror.ValidationFailed("password",
				fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordBytes))
		}
		return "", fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		AvatarURL:    GravatarURL(in.Email),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))

	return s.issue(user.ID)
}

// Login checks email and password and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.Email,
			validation.Required.Error("please include a valid email"),
			is.EmailFormat.Error("please include a valid email")),
		validation.Field(&in.Password, validation.Required.Error("password is required")),
	)
	if err != nil {
		return "", validationError(err)
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.ValidationFailed("", msgInvalidCredentials)
		}
		return "", fmt.Errorf("service/auth: looking up %s: %w", in.Email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", apperror.ValidationFailed("", msgInvalidCredentials)
		}
		return "", fmt.Errorf("service/auth: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issue(user.ID)
}

// Me returns the caller's account. The password hash never serializes.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", userID, err)
	}
	return user, nil
}

// LoginWithGitHub signs in the account matching the GitHub email, creating
// one on first sign-in. Accounts created here have no password.
func (s *AuthService) LoginWithGitHub(ctx context.Context, gh *auth.GitHubUser) (string, error) {
	if gh == nil {
		return "", errors.New("service/auth: GitHub user must not be nil")
	}

	email := normalizeEmail(gh.Email)
	if email == "" {
		return "", apperror.ValidationFailed("email", "GitHub account has no usable email")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, apperror.ErrNotFound):
		avatar := gh.AvatarURL
		if avatar == "" {
			avatar = GravatarURL(email)
		}
		user = &model.User{
			Name:      gh.DisplayName(),
			Email:     email,
			AvatarURL: avatar,
		}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return "", fmt.Errorf("service/auth: creating GitHub user: %w", err)
		}
		s.logger.Info("user registered via GitHub",
			slog.String("userID", user.ID),
			slog.String("login", gh.Login),
		)
	default:
		return "", fmt.Errorf("service/auth: looking up %s: %w", email, err)
	}

	return s.issue(user.ID)
}

func (s *AuthService) issue(userID string) (string, error) {
	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("service/auth: generating token for user %s: %w", userID, err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL returns the Gravatar image for email: 200px, rated pg, with
// the "mystery man" silhouette when no image is registered.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
