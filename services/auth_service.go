package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/repositories"
	"github.com/foodgram-api/validation"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService registers users and issues and verifies their tokens
type AuthService struct {
	userRepo *repositories.UserRepository
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService creates a new auth service instance
func NewAuthService(userRepo *repositories.UserRepository, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	return s.createUser(ctx, req, false)
}

// CreateSuperuser creates an active staff account
func (s *AuthService) CreateSuperuser(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	return s.createUser(ctx, req, true)
}

func (s *AuthService) createUser(ctx context.Context, req dto.RegisterRequest, staff bool) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkAvailable(ctx, email, req.Username); err != nil {
		return models.User{}, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hash,
		IsStaff:   staff,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// lost a race with a concurrent registration
			if err := s.checkAvailable(ctx, email, req.Username); err != nil {
				return models.User{}, err
			}
			return models.User{}, validation.Field("email", validation.MsgEmailTaken)
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// checkAvailable reports every taken identifier as a field error
func (s *AuthService) checkAvailable(ctx context.Context, email, username string) error {
	verr := validation.New()
	if taken, err := s.userRepo.ExistsByEmail(ctx, email); err != nil {
		return fmt.Errorf("check email: %w", err)
	} else if taken {
		verr.Add("email", validation.MsgEmailTaken)
	}
	if taken, err := s.userRepo.ExistsByUsername(ctx, username); err != nil {
		return fmt.Errorf("check username: %w", err)
	} else if taken {
		verr.Add("username", validation.MsgUsernameTaken)
	}
	return verr.Err()
}

// Login authenticates a user and returns a token
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive || !CheckPassword(user.Password, req.Password) {
		return dto.TokenResponse{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{AuthToken: token, ExpiresAt: expiresAt}, nil
}

// GenerateToken generates a new JWT token for a user
func (s *AuthService) GenerateToken(user models.User) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := dto.TokenClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims if valid
func (s *AuthService) ValidateToken(tokenString string) (*dto.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*dto.TokenClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Authenticate resolves a token to its active user
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return models.User{}, ErrUnauthenticated
	}
	return user, nil
}

// SetPassword replaces the password after checking the current one
func (s *AuthService) SetPassword(ctx context.Context, user *models.User, req dto.SetPasswordRequest) error {
	if err := RequireAuthenticated(user); err != nil {
		return err
	}
	if !CheckPassword(user.Password, req.CurrentPassword) {
		return validation.Field("current_password", validation.MsgWrongPassword)
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.Password = hash
	return nil
}

// HashPassword hashes a plain-text password with bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches the bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
