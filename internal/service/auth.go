package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/sakif/cabin-manager/internal/apperror"
	"github.com/sakif/cabin-manager/internal/auth"
	"github.com/sakif/cabin-manager/internal/authz"
	"github.com/sakif/cabin-manager/internal/model"
	"github.com/sakif/cabin-manager/internal/repository"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgNoLinkedAccount    = "No account is linked to this GitHub user"

	MinPasswordLength = 8
	MaxUsernameLength = 64
)

// AuthService handles sign-in, session lookup and account provisioning.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Accounts are only ever created by the provisioning CLI. Neither login
// path registers anybody.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

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

// AuthResult bundles the principal and the signed token so the handler can
// set the cookie and respond in one step.
type AuthResult struct {
	Principal auth.Principal
	Token     string
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required.Error("Username is required")),
		validation.Field(&in.Password, validation.Required.Error("Password is required")),
	)
}

// Login checks a username and password. An unknown user and a wrong
// password produce the same 401 so the response does not reveal which
// usernames exist.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := toAppError(in.Validate()); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login rejected", slog.String("username", in.Username), slog.String("reason", "unknown user"))
			return nil, apperror.Unauthorized(msgInvalidCredentials)
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", in.Username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidPassword) {
			return nil, fmt.Errorf("service/auth: verifying password of %s: %w", in.Username, err)
		}
		s.logger.Info("login rejected", slog.String("username", in.Username), slog.String("reason", "bad password"))
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}

	return s.issue(user)
}

// LoginWithGitHub signs in the provisioned user whose username equals the
// GitHub login.
func (s *AuthService) LoginWithGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	if gh == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetUserByUsername(ctx, gh.Login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("GitHub login has no account", slog.String("login", gh.Login), slog.Int64("githubID", gh.ID))
			return nil, apperror.Unauthorized(msgNoLinkedAccount)
		}
		return nil, fmt.Errorf("service/auth: looking up %s: %w", gh.Login, err)
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	p := principalFor(user)
	token, err := s.tokens.Generate(p)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", user.ID, err)
	}

	s.logger.Info("user signed in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)
	return &AuthResult{Principal: p, Token: token}, nil
}

// Session re-reads the caller's account for the session probe, so a
// deleted user gets 401 here and a changed role is reported here first.
// Every other endpoint authorizes with the role in the token, which stays
// in force until the token expires or the user signs in again.
func (s *AuthService) Session(ctx context.Context, p *auth.Principal) (*auth.Principal, error) {
	if err := authz.RequireSession(p); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("Unauthorized")
		}
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", p.UserID, err)
	}

	current := principalFor(user)
	return &current, nil
}

// SessionTTL is how long an issued token stays valid.
func (s *AuthService) SessionTTL() int {
	return int(s.tokens.TTL().Seconds())
}

// CreateUser provisions an account. Only the provisioning CLI calls it.
func (s *AuthService) CreateUser(ctx context.Context, username, password, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	err := validation.Errors{
		"username": validation.Validate(username,
			validation.Required.Error("username is required"),
			validation.RuneLength(1, MaxUsernameLength).Error(fmt.Sprintf("username must be at most %d characters", MaxUsernameLength)),
		),
		"password": validation.Validate(password,
			validation.Required.Error("password is required"),
			validation.Length(MinPasswordLength, auth.MaxPasswordBytes).Error(
				fmt.Sprintf("password must be between %d and %d bytes", MinPasswordLength, auth.MaxPasswordBytes)),
		),
	}.Filter()
	if err := toAppError(err); err != nil {
		return nil, err
	}

	r, err := model.ParseRole(strings.ToUpper(strings.TrimSpace(role)))
	if err != nil {
		return nil, apperror.ValidationFailed("role", "role must be ADMIN, USER or DUMMY")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash, Role: r}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user provisioned", slog.String("userID", user.ID), slog.String("username", username), slog.String("role", string(r)))
	return user, nil
}

// SetRole changes an existing user's role.
func (s *AuthService) SetRole(ctx context.Context, username, role string) (*model.User, error) {
	r, err := model.ParseRole(strings.ToUpper(strings.TrimSpace(role)))
	if err != nil {
		return nil, apperror.ValidationFailed("role", "role must be ADMIN, USER or DUMMY")
	}

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateUserRole(ctx, user.ID, r); err != nil {
		return nil, fmt.Errorf("service/auth: updating role of %s: %w", user.Username, err)
	}
	user.Role = r

	s.logger.Info("role changed", slog.String("username", user.Username), slog.String("role", string(r)))
	return user, nil
}

func principalFor(u *model.User) auth.Principal {
	return auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}
