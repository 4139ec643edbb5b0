package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finance/internal/errors"
	"finance/internal/models"
	"finance/internal/money"
	"finance/internal/pagination"
	"finance/internal/quote"
)

// position is one row of the per-symbol share aggregate.
type position struct {
	Symbol string
	Shares int64
}

// tradeService handles buying, selling and trade history.
type tradeService struct {
	db     *gorm.DB
	quotes QuoteServicer
}

// NewTradeService creates a new TradeServicer.
func NewTradeService(db *gorm.DB, quotes QuoteServicer) TradeServicer {
	return &tradeService{db: db, quotes: quotes}
}

// Buy purchases shares at the current price. The cash debit and the trade
// insert commit together or not at all.
func (s *tradeService) Buy(ctx context.Context, userID, symbol string, shares int64) (*models.Trade, error) {
	if shares <= 0 {
		return nil, apperrors.ErrInvalidShares
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	cost := money.Cost(q.Price, shares)

	trade := &models.Trade{
		UserID: userID,
		Symbol: q.Symbol,
		Shares: shares,
		Price:  q.Price,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}
		if cost.GreaterThan(user.Cash) {
			return apperrors.ErrInsufficientFunds
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND cash >= ?", userID, cost).
			Update("cash", user.Cash.Sub(cost))
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrInsufficientFunds
		}

		if err := tx.Create(trade).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// Sell sells shares the user holds at the current price.
func (s *tradeService) Sell(ctx context.Context, userID, symbol string, shares int64) (*models.Trade, error) {
	if shares <= 0 {
		return nil, apperrors.ErrInvalidShares
	}

	symbol = quote.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrMissingField, "must provide symbol")
	}

	// Reject before the network round trip; re-checked under the lock below.
	held, err := heldShares(s.db.WithContext(ctx), userID, symbol)
	if err != nil {
		return nil, err
	}
	if held < shares {
		return nil, apperrors.ErrInsufficientShares
	}

	q, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}
	proceeds := money.Cost(q.Price, shares)

	trade := &models.Trade{
		UserID: userID,
		Symbol: q.Symbol,
		Shares: -shares,
		Price:  q.Price,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		held, err := heldShares(tx, userID, q.Symbol)
		if err != nil {
			return err
		}
		if held < shares {
			return apperrors.ErrInsufficientShares
		}

		cash := user.Cash.Add(proceeds)
		if !money.InRange(cash) {
			return errBalanceLimit
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("cash", cash).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(trade).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// HeldSymbols lists the symbols with a positive share balance, alphabetically.
func (s *tradeService) HeldSymbols(ctx context.Context, userID string) ([]string, error) {
	positions, err := openPositions(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	symbols := make([]string, 0, len(positions))
	for _, p := range positions {
		symbols = append(symbols, p.Symbol)
	}
	return symbols, nil
}

// History returns every trade of the user in execution order.
func (s *tradeService) History(ctx context.Context, userID string) ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("traded_at ASC, id ASC").
		Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return trades, nil
}

// HistoryPage returns one page of the user's trades in execution order.
func (s *tradeService) HistoryPage(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error) {
	page.Defaults()

	base := s.db.WithContext(ctx).Model(&models.Trade{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var trades []models.Trade
	if err := base.Scopes(pagination.Paginate(page)).
		Order("traded_at ASC, id ASC").
		Find(&trades).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(trades, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// lockUser loads the user row for update. All cash mutations take this lock
// first so trades of one user serialize.
func lockUser(tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// heldShares sums the user's shares of one symbol.
func heldShares(db *gorm.DB, userID, symbol string) (int64, error) {
	var held int64
	if err := db.Model(&models.Trade{}).
		Select("COALESCE(SUM(shares), 0)").
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Scan(&held).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return held, nil
}

// openPositions returns every symbol with a positive share sum, alphabetically.
func openPositions(db *gorm.DB, userID string) ([]position, error) {
	var positions []position
	if err := db.Model(&models.Trade{}).
		Select("symbol, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Having("SUM(shares) > 0").
		Order("symbol ASC").
		Scan(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return positions, nil
}
