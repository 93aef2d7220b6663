package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jewel-shop/internal/domain"
	"jewel-shop/internal/identity"
	"jewel-shop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10

	// Token expiration times
	AccessTokenExpiration  = 15 * time.Minute
	RefreshTokenExpiration = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
)

// Claims represents the JWT claims
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair bundles the access and refresh tokens handed to a client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService defines the interface for user business logic
type UserService interface {
	Register(ctx context.Context, email, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	GoogleLogin(ctx context.Context, idToken string) (*TokenPair, *domain.User, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken string, err error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	CreateAddress(ctx context.Context, address *domain.Address) error
	UpdateAddress(ctx context.Context, id, userID uuid.UUID, patch domain.AddressPatch) (*domain.Address, error)
	DeleteAddress(ctx context.Context, id, userID uuid.UUID) error
}

type userService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	addressRepo      repository.AddressRepository
	verifier         identity.Verifier
	jwtSecret        string
}

// NewUserService creates a new instance of UserService
func NewUserService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	addressRepo repository.AddressRepository,
	verifier identity.Verifier,
	jwtSecret string,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		addressRepo:      addressRepo,
		verifier:         verifier,
		jwtSecret:        jwtSecret,
	}
}

// Register creates a new user account with a hashed password
func (s *userService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, repository.ErrUserAlreadyExists
	}

	hashedPassword, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: &hashedPassword,
		FullName:     fullName,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user and returns JWT tokens. Users created via
// social login have no password hash and cannot password-login.
func (s *userService) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.PasswordHash == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
}

// GoogleLogin verifies a Google ID token and logs the subject in,
// creating a password-less account on first sight.
func (s *userService) GoogleLogin(ctx context.Context, idToken string) (*TokenPair, *domain.User, error) {
	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.FindByEmail(ctx, id.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("failed to find user: %w", err)
		}

		user = &domain.User{
			ID:           uuid.New(),
			Email:        id.Email,
			PasswordHash: nil, // social users have no password credential
			FullName:     id.Name,
			Role:         domain.RoleUser,
			IsActive:     true,
			CreatedAt:    time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
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

	return s.generateAccessToken(user)
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies a typed patch to the caller's own profile
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ListAddresses returns the caller's saved addresses
func (s *userService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	return s.addressRepo.ListByUser(ctx, userID)
}

// CreateAddress saves a new address for the caller
func (s *userService) CreateAddress(ctx context.Context, address *domain.Address) error {
	address.ID = uuid.New()
	address.CreatedAt = time.Now()
	return s.addressRepo.Create(ctx, address)
}

// UpdateAddress applies a typed patch to one of the caller's addresses
func (s *userService) UpdateAddress(ctx context.Context, id, userID uuid.UUID, patch domain.AddressPatch) (*domain.Address, error) {
	address, err := s.addressRepo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(address)

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, err
	}

	return address, nil
}

// DeleteAddress removes one of the caller's addresses
func (s *userService) DeleteAddress(ctx context.Context, id, userID uuid.UUID) error {
	return s.addressRepo.Delete(ctx, id, userID)
}

func (s *userService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// generateAccessToken generates a JWT access token with user ID and role claims
func (s *userService) generateAccessToken(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(AccessTokenExpiration)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// generateRefreshToken generates a refresh token and stores it in the database
func (s *userService) generateRefreshToken(ctx context.Context, user *domain.User) (string, error) {
	tokenString := uuid.New().String()

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: time.Now().Add(RefreshTokenExpiration),
		CreatedAt: time.Now(),
		Revoked:   false,
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return tokenString, nil
}
