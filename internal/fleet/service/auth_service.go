package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/config"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/entity"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/fleet/repository"
	"github.com/willnockology/dayboard-hub-new-sub000/internal/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const refreshKeyPrefix = "token:refresh:"

// TokenPair access and refresh token
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
	User         *entity.User `json:"user,omitempty"`
}

// AuthService local credential login. Without Redis refresh tokens cannot be
// revoked and are accepted on signature alone.
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      config.JWTConfig
	logger   *zap.Logger
}

// NewAuthService creates an auth service; rdb may be nil
func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg config.JWTConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg, logger: logger}
}

// Login checks username and password
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Status != entity.UserStatusActive {
		return nil, ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("update last login failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return s.generateTokenPair(ctx, user)
}

// Refresh exchanges a refresh token for a new pair; the old one is revoked
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	userID := claims.Subject
	if s.rdb != nil {
		stored, err := s.rdb.Get(ctx, refreshKeyPrefix+claims.ID).Result()
		if err != nil || stored != userID {
			return nil, ErrUnauthorized
		}
		s.rdb.Del(ctx, refreshKeyPrefix+claims.ID)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.Status != entity.UserStatusActive {
		return nil, ErrUnauthorized
	}
	return s.generateTokenPair(ctx, user)
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return err
	}
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, refreshKeyPrefix+claims.ID).Err()
}

// CurrentUser loads the session's user
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	return user, nil
}

func (s *AuthService) parseRefresh(tokenString string) (*middleware.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &middleware.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrUnauthorized
	}
	claims, ok := token.Claims.(*middleware.JWTClaims)
	if !ok || !token.Valid || claims.Type != "refresh" || claims.ID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	now := time.Now()
	secret := []byte(s.cfg.Secret)

	access := middleware.JWTClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
			ID:        uuid.New().String(),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshJti := uuid.New().String()
	refresh := middleware.JWTClaims{
		Type: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTokenExpire)),
			ID:        refreshJti,
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(secret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, refreshKeyPrefix+refreshJti, user.ID, s.cfg.RefreshTokenExpire).Err(); err != nil {
			return nil, fmt.Errorf("store refresh token: %w", err)
		}
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
		TokenType:    "Bearer",
		User:         user,
	}, nil
}
