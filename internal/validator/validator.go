// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"finance/internal/money"
)

// MaxShares bounds a single order so share*price arithmetic stays sane.
const MaxShares = 1_000_000_000

var tickerRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]{0,9}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("ticker", validateTicker)
	_ = v.RegisterValidation("whole_shares", validateWholeShares)
	_ = v.RegisterValidation("usd_amount", validateUSDAmount)
}

// IsTicker reports whether s looks like an exchange ticker, e.g. "AAPL" or "BRK.B".
func IsTicker(s string) bool {
	return tickerRegex.MatchString(strings.TrimSpace(s))
}

// ParseShares parses a positive whole share count.
func ParseShares(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "+-") {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 || n > MaxShares {
		return 0, false
	}
	return n, true
}

func validateTicker(fl validator.FieldLevel) bool {
	return IsTicker(fl.Field().String())
}

func validateWholeShares(fl validator.FieldLevel) bool {
	_, ok := ParseShares(fl.Field().String())
	return ok
}

func validateUSDAmount(fl validator.FieldLevel) bool {
	_, err := money.ParseAmount(fl.Field().String())
	return err == nil
}
