// Package service contains the application's business logic, sitting between
// the HTTP handlers and the repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cirqls/internal/cache"
	"cirqls/internal/config"
	"cirqls/internal/models"
	"cirqls/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "cirqls"
	tokenAudience = "cirqls-api"
	tokenLifetime = 24 * time.Hour
)

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult carries the authenticated user and their session token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Username == "" || in.Email == "" {
		return nil, models.NewValidationError("Username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByUsername(ctx, in.Username); err == nil {
		return nil, models.NewValidationError("Username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewUpstreamError("auth", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, models.NewUpstreamError("auth", err)
	}

	return s.issueSession(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewAuthenticationError("Invalid username or password")
		}
		return nil, models.NewUpstreamError("auth", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewAuthenticationError("Invalid username or password")
	}

	return s.issueSession(user)
}

// Logout revokes the session token by recording its ID on the denylist
// until the token would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return models.NewAuthenticationError("Invalid or expired token")
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil
	}

	remaining := cache.DenylistOpen
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		remaining = time.Until(exp.Time)
	}
	cache.DenyToken(ctx, jti, remaining)
	return nil
}

// Verify validates a session token and returns the authenticated user ID.
// This is the handshake check for websocket subscribers.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (uint, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid or expired token")
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		if cache.IsTokenDenied(ctx, jti) {
			return 0, models.NewAuthenticationError("Token has been revoked")
		}
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewAuthenticationError("Invalid token structure")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid token subject")
	}
	return uint(userID), nil
}

// IssueTicket mints a short-lived single-use websocket handshake ticket for
// an already-authenticated user.
func (s *AuthService) IssueTicket(ctx context.Context, userID uint) (string, error) {
	ticket := uuid.NewString()
	if err := cache.IssueTicket(ctx, ticket, userID); err != nil {
		return "", models.NewUpstreamError("auth", err)
	}
	return ticket, nil
}

// RedeemTicket exchanges a handshake ticket for the user it was minted for.
// A ticket can be redeemed at most once.
func (s *AuthService) RedeemTicket(ctx context.Context, ticket string) (uint, error) {
	userID, err := cache.RedeemTicket(ctx, ticket)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid or expired ticket")
	}
	return userID, nil
}

func (s *AuthService) issueSession(user *models.User) (*AuthResult, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", user.ID),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{User: user, Token: signed}, nil
}

func (s *AuthService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
