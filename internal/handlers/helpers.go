package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "finance/internal/errors"
	"finance/internal/middleware"
)

// ErrorResponse documents the JSON error object.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code" example:"SYMBOL_NOT_FOUND"`
		Message string `json:"message" example:"invalid symbol"`
	} `json:"error"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// respondWithError writes err as the apology page or, under /api, as a
// JSON error object.
func respondWithError(c *gin.Context, err error) {
	middleware.RespondError(c, err)
}

// renderPage renders a page inside the layout with the login state filled in.
func renderPage(c *gin.Context, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["LoggedIn"] = middleware.IsAuthenticated(c)
	c.HTML(http.StatusOK, name, data)
}

// redirectHome ends a successful form post.
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

// bindForm binds a posted form and maps validation failures onto the
// matching application errors.
func bindForm(c *gin.Context, req any) error {
	if err := c.ShouldBind(req); err != nil {
		return bindingError(err)
	}
	return nil
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid form data")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.WithMessage(apperrors.ErrMissingField, "must provide "+strings.ToLower(fe.Field()))
	case "ticker":
		return apperrors.ErrSymbolNotFound
	case "whole_shares":
		return apperrors.ErrInvalidShares
	case "usd_amount":
		return apperrors.ErrInvalidAmount
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+strings.ToLower(fe.Field()))
	}
}
