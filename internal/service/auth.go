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
	"gorm.io/gorm"

	"github.com/ezchef/ezchef/backend/internal/models"
	"github.com/ezchef/ezchef/backend/internal/types"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72

	dateLayout = "2006-01-02"
)

type AuthService struct {
	db         *gorm.DB
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

var _ IAuthService = (*AuthService)(nil)

type AuthOption func(*AuthService)

// WithTokenTTL overrides the access and refresh token lifetimes
func WithTokenTTL(access, refresh time.Duration) AuthOption {
	return func(s *AuthService) {
		s.accessTTL = access
		s.refreshTTL = refresh
	}
}

// WithBcryptCost sets the cost used for new password hashes
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.bcryptCost = cost
	}
}

func withClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		s.now = now
	}
}

func NewAuthService(db *gorm.DB, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		db:         db,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  24 * time.Hour,
		refreshTTL: 7 * 24 * time.Hour,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, newValidationError(field, "must be a date formatted as YYYY-MM-DD")
	}
	return &d, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return newValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return newValidationError("password", "must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" {
		return nil, newValidationError("username", "is required")
	}
	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}
	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("username %q is already taken", username)
	}
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, duplicatef("email %q is already registered", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		DateOfBirth:  dob,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, translate(err, "user")
	}

	return &user, nil
}

// Login checks the credentials. identifier is a username, or an email address when it contains '@'.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	query := s.db.WithContext(ctx)
	if strings.Contains(identifier, "@") {
		query = query.Where("email = ?", strings.ToLower(identifier))
	} else {
		query = query.Where("username = ?", identifier)
	}

	var user models.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GenerateToken signs claims with the service secret
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// IssueTokens creates an access and a refresh token for user
func (s *AuthService) IssueTokens(user *models.User) (access string, refresh string, err error) {
	now := s.now()

	access, err = s.GenerateToken(&types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		UserID:    user.ID,
		Username:  user.Username,
		TokenType: types.AccessToken,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err = s.GenerateToken(&types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
		UserID:    user.ID,
		TokenType: types.RefreshToken,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return access, refresh, nil
}

func (s *AuthService) parse(ctx context.Context, tokenString, wantType string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	// tokens of deleted accounts stop working
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", claims.UserID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateToken accepts access tokens only
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	return s.parse(ctx, tokenString, types.AccessToken)
}

// Refresh exchanges a refresh token for a new access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parse(ctx, refreshToken, types.RefreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return "", err
	}

	access, _, err := s.IssueTokens(user)
	return access, err
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}
