package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/studytrack/internal/apperror"
	"github.com/sakif/studytrack/internal/auth"
	"github.com/sakif/studytrack/internal/model"
	"github.com/sakif/studytrack/internal/repository"
)

// MinPasswordLength is the floor for new passwords. The ceiling is
// bcrypt's 72-byte input limit, enforced by the hasher.
const MinPasswordLength = 8

// AuthService handles account registration and both login paths:
// email/password and GitHub OAuth. It issues the session tokens the
// HTTP layer puts in cookies.
type AuthService struct {
	store     repository.Store
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(store repository.Store, passwords *auth.PasswordService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates an email/password account and returns the user with
// a session token. The email is stored lower-cased so collaboration
// invites can match it case-insensitively.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, "", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, "", apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, "", apperror.Conflict("an account with this email already exists")
		}
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user registered", slog.String("id", user.ID))
	return user, token, nil
}

// Login authenticates an email/password account and returns the user
// with a fresh session token. Unknown email and wrong password produce
// the SAME error, so login attempts can't probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", apperror.Unauthorized("invalid email or password")
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	// OAuth-only accounts have no password hash; they must log in
	// through their provider.
	if user.PasswordHash == "" {
		return nil, "", apperror.Unauthorized("invalid email or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, "", apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	return user, token, nil
}

// LoginGitHub upserts the account behind a completed GitHub OAuth
// exchange and returns it with a session token. Repeat logins update
// the profile fields; the account is keyed on the stable numeric
// GitHub ID, not the login name.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(gh.Email))
	if email == "" {
		// GitHub hides the email when the user opts out; synthesize the
		// noreply form so the account still has a match target for
		// collaboration invites.
		email = fmt.Sprintf("%d+%s@users.noreply.github.com", gh.ID, strings.ToLower(gh.Login))
	}

	user := &model.User{
		Email:     email,
		GitHubID:  gh.ID,
		Name:      gh.Login,
		AvatarURL: gh.AvatarURL,
	}
	if err := s.store.UpsertGitHubUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("upserting GitHub user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("github login", slog.String("id", user.ID))
	return user, token, nil
}

// GetUser returns a user by ID, for the "who am I" endpoint.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.GetUserByID(ctx, userID)
}
