package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finance/internal/errors"
	"finance/internal/models"
	"finance/internal/money"
	"finance/internal/services"
)

// CashHandler serves the add and remove cash pages.
type CashHandler struct {
	cashService  services.CashServicer
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewCashHandler creates a new CashHandler
func NewCashHandler(cashService services.CashServicer, userService services.UserServicer, auditService services.AuditServicer) *CashHandler {
	return &CashHandler{cashService: cashService, userService: userService, auditService: auditService}
}

// CashForm is the deposit and withdrawal form.
type CashForm struct {
	Amount string `form:"amount" binding:"required,usd_amount"`
}

// ShowAddMoney renders the deposit form.
func (h *CashHandler) ShowAddMoney(c *gin.Context) {
	renderPage(c, "add_money.html", nil)
}

// AddMoney deposits virtual cash.
func (h *CashHandler) AddMoney(c *gin.Context) {
	h.adjust(c, services.AuditDeposit, h.cashService.Deposit)
}

// ShowRemoveMoney renders the withdrawal form with the available cash.
func (h *CashHandler) ShowRemoveMoney(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	renderPage(c, "remove_money.html", gin.H{"Cash": user.Cash})
}

// RemoveMoney withdraws virtual cash.
func (h *CashHandler) RemoveMoney(c *gin.Context) {
	h.adjust(c, services.AuditWithdraw, h.cashService.Withdraw)
}

func (h *CashHandler) adjust(c *gin.Context, action string, apply func(ctx context.Context, userID string, amount decimal.Decimal) (*models.User, error)) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var form CashForm
	if err := bindForm(c, &form); err != nil {
		respondWithError(c, err)
		return
	}
	amount, err := money.ParseAmount(form.Amount)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidAmount)
		return
	}

	user, err := apply(c.Request.Context(), userID, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, action, "user", userID, c.ClientIP(),
		map[string]any{"amount": amount.String(), "cash": user.Cash.String()})
	redirectHome(c)
}
