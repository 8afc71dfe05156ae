package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ctchen222/minimax-tic-tac-toe/internal/api/models"
	"ctchen222/minimax-tic-tac-toe/internal/api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims is the JWT payload. The subject is the player id.
type Claims struct {
	Username string `json:"un,omitempty"`
	Guest    bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GuestLogin(ctx context.Context) (*models.LoginResponse, error)
	ParseToken(token string) (*Claims, error)
}

type userService struct {
	userRepo repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewUserService creates a new UserService signing tokens with secret.
func NewUserService(userRepo repository.UserRepository, secret string, tokenTTL time.Duration) UserService {
	return &userService{userRepo: userRepo, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Register handles user registration.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) error {
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existingUser != nil {
		return repository.ErrUsernameTaken
	}

	user := &models.User{
		PlayerID: uuid.New().String(),
		Username: req.Username,
	}
	return s.userRepo.CreateUser(ctx, user, req.Password)
}

// Login handles user login and returns a JWT on success.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.sign(Claims{Username: user.Username}, user.PlayerID)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, PlayerID: user.PlayerID}, nil
}

// GuestLogin issues a token for a fresh anonymous player id.
func (s *userService) GuestLogin(ctx context.Context) (*models.LoginResponse, error) {
	playerID := uuid.New().String()
	token, err := s.sign(Claims{Guest: true}, playerID)
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{Token: token, PlayerID: playerID}, nil
}

func (s *userService) sign(claims Claims, playerID string) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   playerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns its claims.
func (s *userService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
