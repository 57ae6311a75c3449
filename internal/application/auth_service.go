package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/studyforest/study-forest-api/internal/domain/entity"
	repo "github.com/studyforest/study-forest-api/internal/domain/repository"
	"github.com/studyforest/study-forest-api/pkg/helpers"
	"github.com/studyforest/study-forest-api/pkg/validation"
)

// AuthService registers accounts and issues session tokens.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Nickname string `json:"nickname" validate:"required,nickname"`
	Password string `json:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is an issued token together with its owner.
type Session struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Nickname = strings.TrimSpace(in.Nickname)
	details := validation.Struct(in)
	// max counts runes; bcrypt limits bytes.
	if len(in.Password) > helpers.MaxPasswordBytes {
		if details == nil {
			details = map[string]string{}
		}
		details["password"] = fmt.Sprintf("must be at most %d bytes", helpers.MaxPasswordBytes)
	}
	if details != nil {
		return nil, invalid("invalid registration", details)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: in.Email, Nickname: in.Nickname, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")
	return u, nil
}

// Login checks the credentials and signs a session token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if details := validation.Struct(in); details != nil {
		return nil, invalid("invalid login", details)
	}

	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Sign(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: token, ExpiresAt: exp}, nil
}

// Me returns the user behind a verified session.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
