// Package auth is adapter plumbing: it turns credentials into an
// authenticated actor identity for the core. Password hashes are opaque
// everywhere else.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/repository"
	"github.com/openflock/backend/internal/util"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued session token stays valid
const TokenTTL = 7 * 24 * time.Hour

// Service handles signup, login and token verification
type Service struct {
	jwtSecret []byte
	users     *repository.UserRepository
}

// NewService creates the auth service
func NewService(jwtSecret []byte, users *repository.UserRepository) *Service {
	return &Service{jwtSecret: jwtSecret, users: users}
}

// AuthResponse is what a successful signup or login returns
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// SignupRequest carries the fields needed to create an account
type SignupRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=50"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup creates a new account. Username and email are unique,
// case-insensitively.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if !util.IsValidEmail(req.Email) {
		return nil, errors.ValidationError("email", "invalid email format")
	}
	if !util.IsValidPassword(req.Password) {
		return nil, errors.ValidationError("password", "password must be at least 6 characters")
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.Conflict("username")
	} else if !errors.IsCode(err, errors.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.Conflict("email")
	} else if !errors.IsCode(err, errors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("failed to hash password")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.issueToken(&user)
}

// Login verifies credentials and issues a session token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.IsCode(err, errors.ErrNotFound) {
			return nil, errors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}

	return s.issueToken(user)
}

// VerifyToken parses a session token and returns the user id it names
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.Unauthorized("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.Unauthorized("invalid token claims")
	}
	return userID, nil
}

func (s *Service) issueToken(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.InternalError("failed to sign token")
	}

	return &AuthResponse{
		Token:     signed,
		User:      *user,
		ExpiresAt: expiresAt,
	}, nil
}
