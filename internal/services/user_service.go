package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "finance/internal/errors"
	"finance/internal/models"
)

// bcryptCost is the work factor for new password hashes.
var bcryptCost = bcrypt.DefaultCost

// dummyHash is compared against when the username is unknown so failed
// logins take the same time either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("finance-dummy-password"), bcrypt.DefaultCost)

// userService handles user-related business logic.
type userService struct {
	db           *gorm.DB
	startingCash decimal.Decimal
}

// NewUserService creates a new UserServicer. New users receive startingCash.
func NewUserService(db *gorm.DB, startingCash decimal.Decimal) UserServicer {
	return &userService{db: db, startingCash: startingCash}
}

// Register creates a user after checking the form fields.
func (s *userService) Register(ctx context.Context, username, password, confirmation string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := requireFields("username", username, "password", password, "confirmation", confirmation); err != nil {
		return nil, err
	}
	if password != confirmation {
		return nil, apperrors.ErrPasswordMismatch
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Hash:     string(hash),
		Cash:     s.startingCash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateUsername
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// AttemptLogin returns the user when username and password match. Unknown
// users and wrong passwords produce the same error.
func (s *userService) AttemptLogin(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := requireFields("username", username, "password", password); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Hash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// requireFields takes name/value pairs and reports the first empty value
// as "must provide <name>".
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return apperrors.WithMessage(apperrors.ErrMissingField, "must provide "+pairs[i])
		}
	}
	return nil
}
