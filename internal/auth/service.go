package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/filmatch/filmatch-backend/internal/users"
	pkgauth "github.com/filmatch/filmatch-backend/pkg/auth"
	"github.com/filmatch/filmatch-backend/pkg/auth/session"
	"github.com/filmatch/filmatch-backend/pkg/config"
	"github.com/filmatch/filmatch-backend/pkg/db"
	"github.com/filmatch/filmatch-backend/pkg/db/models"
	pkgerrors "github.com/filmatch/filmatch-backend/pkg/errors"
	"github.com/filmatch/filmatch-backend/pkg/logger"
	"github.com/filmatch/filmatch-backend/pkg/security"
)

const minPasswordLength = 8

// UserDTO is the public projection of a user identity.
type UserDTO struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}

// TokenPair carries the credentials returned to a client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthResult is the full login/register response.
type AuthResult struct {
	User   UserDTO   `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// RegisterInput collects what a new account needs.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"required"`
}

// Service handles registration, login and the refresh session lifecycle.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type profileCreator interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, email, displayName string) (*models.UserProfile, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users    userStore
	profiles profileCreator
	sessions sessionManager
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
}

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	Users    userStore
	Profiles profileCreator
	Sessions sessionManager
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile creator is required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		users:    params.Users,
		profiles: params.Profiles,
		sessions: params.Sessions,
		jwt:      params.JWT,
		password: params.Password,
		logg:     params.Logger,
	}, nil
}

// Register creates the user row and its empty profile, then signs the user in.
func (s *service) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	email := users.NormalizeEmail(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return AuthResult{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "check existing account")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// The pre-check above races with concurrent registrations; the unique
		// index on email is the authority.
		if db.IsUniqueViolation(err, "") {
			return AuthResult{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return AuthResult{}, pkgerrors.Persistence(pkgerrors.StageWrite, err, "create account")
	}
	if _, err := s.profiles.CreateProfile(ctx, user.ID, email, displayName); err != nil {
		return AuthResult{}, pkgerrors.Persistence(pkgerrors.StageWrite, err, "create profile")
	}

	return s.issueTokens(ctx, user)
}

// Login verifies the password and returns a fresh token pair. Lookup and
// verification failures share one message so the response does not reveal
// which emails exist.
func (s *service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = users.NormalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	case err != nil:
		return AuthResult{}, pkgerrors.Persistence(pkgerrors.StageRead, err, "load account")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	if !user.IsActive {
		return AuthResult{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil && s.logg != nil {
		warnCtx := s.logg.WithUserID(ctx, user.ID.String())
		s.logg.Warn(s.logg.WithField(warnCtx, "error", err.Error()), "last login stamp failed")
	}

	return s.issueTokens(ctx, *user)
}

// Refresh rotates the refresh session named by the (possibly expired) access
// token and mints a new pair.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwt, accessToken)
	if err != nil {
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	if claims.ID == "" || claims.UserID == uuid.Nil {
		return TokenPair{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return TokenPair{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	access, err := pkgauth.MintAccessToken(s.jwt, time.Now(), pkgauth.AccessTokenPayload{
		UserID: claims.UserID,
		JTI:    newAccessID,
	})
	if err != nil {
		return TokenPair{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: newRefresh,
		ExpiresIn:    s.jwt.ExpirationMinutes * 60,
	}, nil
}

// Logout revokes the refresh session tied to the access token's jti.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session identity")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user models.User) (AuthResult, error) {
	accessID := session.NewAccessID()
	access, err := pkgauth.MintAccessToken(s.jwt, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		JTI:    accessID,
	})
	if err != nil {
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refresh, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return AuthResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	return AuthResult{
		User: UserDTO{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
		Tokens: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    s.jwt.ExpirationMinutes * 60,
		},
	}, nil
}
