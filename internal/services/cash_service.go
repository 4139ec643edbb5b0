package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finance/internal/errors"
	"finance/internal/models"
	"finance/internal/money"
)

var errBalanceLimit = apperrors.WithMessage(apperrors.ErrInvalidAmount, "cash balance would exceed the maximum")

// cashService adds and removes virtual cash.
type cashService struct {
	db *gorm.DB
}

// NewCashService creates a new CashServicer.
func NewCashService(db *gorm.DB) CashServicer {
	return &cashService{db: db}
}

// Deposit adds amount to the user's cash.
func (s *cashService) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (*models.User, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	return s.adjust(ctx, userID, amount)
}

// Withdraw removes amount from the user's cash. Cash never goes negative.
func (s *cashService) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (*models.User, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	return s.adjust(ctx, userID, amount.Neg())
}

func (s *cashService) adjust(ctx context.Context, userID string, delta decimal.Decimal) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockUser(tx, userID)
		if err != nil {
			return err
		}

		cash := user.Cash.Add(delta)
		if cash.IsNegative() {
			return apperrors.ErrInsufficientFunds
		}
		if !money.InRange(cash) {
			return errBalanceLimit
		}
		if err := tx.Model(user).Update("cash", cash).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.Cash = cash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// checkAmount enforces a positive amount in whole cents below money.MaxAmount.
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) || !money.InRange(amount) {
		return apperrors.ErrInvalidAmount
	}
	return nil
}
