package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"task-management-system/internal/constants"
	"task-management-system/internal/models"
	"task-management-system/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrUnknownRole        = errors.New("unknown role")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims is the JWT payload. The role and organization IDs ride along so
// logs can tag requests, but authorization always reloads the user; a stale
// token never grants stale access.
type Claims struct {
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	RoleID         string `json:"roleId"`
	OrganizationID string `json:"organizationId"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token handling.
type AuthService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	jwtSecret  []byte
	expiration time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, jwtSecret string, expiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtSecret:  []byte(jwtSecret),
		expiration: expiration,
	}
}

// RegisterInput holds the input for user registration. The role must exist
// and belong to the target organization.
type RegisterInput struct {
	Email          string
	Password       string
	FirstName      string
	LastName       string
	RoleID         string
	OrganizationID string
}

// Register creates a new user and returns it with a signed token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	role, err := s.roleRepo.FindByID(input.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnknownRole
		}
		return nil, "", err
	}
	if role.OrganizationID != input.OrganizationID {
		return nil, "", ErrUnknownRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          input.Email,
		Password:       string(hashed),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		RoleID:         input.RoleID,
		OrganizationID: input.OrganizationID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}
	user.Role = role

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token. A
// missing account and a wrong password are the same error.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile loads the user behind a token's subject.
func (s *AuthService) Profile(userID string) (*models.User, error) {
	return s.userRepo.FindByID(userID)
}

// GenerateToken signs a JWT for the user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         user.ID,
		Email:          user.Email,
		RoleID:         user.RoleID,
		OrganizationID: user.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates a signed token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
