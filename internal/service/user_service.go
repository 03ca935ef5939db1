package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"localshop/internal/domain"
	"localshop/internal/repository"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	DefaultAccessTokenExpiration  = 15 * time.Minute
	DefaultRefreshTokenExpiration = 7 * 24 * time.Hour
)

// TokenConfig controls how session tokens are signed and how long they live
type TokenConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// RegisterInput carries a sign-up form
type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Contact  string `json:"contact" validate:"omitempty,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignUpInput is the sign-up form of the dashboard, which also opens a session.
// Every field is required.
type SignUpInput struct {
	FullName string `json:"fullName" validate:"required,min=2,max=255"`
	Contact  string `json:"contact" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Session is the result of a successful login
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *domain.User
}

// UserService defines the interface for account and session logic
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// SignUp registers the account and logs it in
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	// Login accepts either the email address or the contact number as identifier
	Login(ctx context.Context, identifier, password string) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// Claims represents the JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	tokens           TokenConfig
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	tokens TokenConfig,
) UserService {
	if tokens.AccessExpiry <= 0 {
		tokens.AccessExpiry = DefaultAccessTokenExpiration
	}
	if tokens.RefreshExpiry <= 0 {
		tokens.RefreshExpiry = DefaultRefreshTokenExpiration
	}
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
	}
}

// Register creates a new user account with hashed password
func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Contact:      strings.TrimSpace(in.Contact),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *userService) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	user, err := s.Register(ctx, RegisterInput{
		Name:     in.FullName,
		Contact:  in.Contact,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return nil, err
	}
	return s.openSession(ctx, user)
}

// Login authenticates a user and returns JWT tokens
func (s *userService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.userRepo.FindByContact(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.verifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

func (s *userService) openSession(ctx context.Context, user *domain.User) (*Session, error) {
	accessToken, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         user,
	}, nil
}

// Logout invalidates the refresh token
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.refreshTokenRepo.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			// Token doesn't exist, consider it already logged out
			return nil
		}
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RefreshToken generates a new access token using a valid refresh token
func (s *userService) RefreshToken(ctx context.Context, refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenRevoked) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to find refresh token: %w", err)
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		return "", ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	accessToken, _, err := s.generateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return accessToken, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	claims, err := ParseClaims(tokenString, s.tokens.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// ParseClaims verifies an HS256 token signed with secret
func ParseClaims(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *userService) verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (s *userService) generateAccessToken(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.tokens.AccessExpiry)
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// generateRefreshToken generates a refresh token and stores it
func (s *userService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	refreshToken := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.tokens.RefreshExpiry),
		CreatedAt: time.Now(),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}
	return refreshToken.Token, nil
}
