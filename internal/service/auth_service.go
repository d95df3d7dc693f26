package service

import (
	"context"
	"errors"
	"pdf_quiz_backend/internal/config"
	"pdf_quiz_backend/internal/model"
	"pdf_quiz_backend/internal/util"
	"pdf_quiz_backend/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordHasher hides the salted hash scheme from the auth flow.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(b), err
}

func (h BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// UserStore is the persistence the auth and user services need.
type UserStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	List() ([]model.User, error)
}

type AuthService struct {
	Users  UserStore
	Hasher PasswordHasher
	Tokens TokenStore
	JWT    config.JWTConfig
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenStore, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		Users:  users,
		Hasher: hasher,
		Tokens: tokens,
		JWT:    jwtCfg,
	}
}

// LoginResult is what a successful login hands back to the client.
// swagger:model LoginResult
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if _, err := s.Users.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.Users.FindByUsername(username); err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, Email: email, Password: hashed}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user, nil
}

func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.Users.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.Hasher.Verify(user.Password, password) {
		return nil, util.ErrInvalidCredentials
	}

	token, claims, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return util.ErrUnauthorized
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.Tokens.Revoke(ctx, claims.ID, ttl)
}

func (s *AuthService) GetCurrentUser(claims *util.Claims) (*model.User, error) {
	if claims == nil {
		return nil, util.ErrUnauthorized
	}
	user, err := s.Users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SeedAdmin creates the configured admin account once. An empty password gets a random one, logged at startup.
func (s *AuthService) SeedAdmin(cfg config.AdminConfig) error {
	if _, err := s.Users.FindByUsername(cfg.Username); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := cfg.Password
	generated := password == ""
	if generated {
		password = uuid.NewString()
	}
	hashed, err := s.Hasher.Hash(password)
	if err != nil {
		return err
	}

	admin := &model.User{Username: cfg.Username, Email: cfg.Email, Password: hashed, IsAdmin: true}
	if err := s.Users.Create(admin); err != nil {
		return err
	}

	fields := []zap.Field{zap.String("username", cfg.Username), zap.String("email", cfg.Email)}
	if generated {
		fields = append(fields, zap.String("generated_password", password))
	}
	logger.Log.Info("Admin account created", fields...)
	return nil
}
