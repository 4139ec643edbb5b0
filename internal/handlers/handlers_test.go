package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finance/internal/logger"
	"finance/internal/middleware"
	"finance/internal/models"
	"finance/internal/pagination"
	"finance/internal/quote"
	"finance/internal/services"
	"finance/internal/session"
	"finance/internal/validator"
	"finance/internal/web"
)

// --- mock services ---

type mockUserService struct {
	registerFn     func(username, password, confirmation string) (*models.User, error)
	attemptLoginFn func(username, password string) (*models.User, error)
	getUserByIDFn  func(id string) (*models.User, error)
}

func (m *mockUserService) Register(_ context.Context, username, password, confirmation string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(username, password, confirmation)
	}
	return &models.User{Base: models.Base{ID: "user1"}, Username: username}, nil
}

func (m *mockUserService) AttemptLogin(_ context.Context, username, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(username, password)
	}
	return &models.User{Base: models.Base{ID: "user1"}, Username: username}, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}, Cash: decimal.NewFromInt(10000)}, nil
}

type mockQuoteService struct {
	lookupFn func(symbol string) (*quote.Quote, error)
}

func (m *mockQuoteService) Lookup(_ context.Context, symbol string) (*quote.Quote, error) {
	if m.lookupFn != nil {
		return m.lookupFn(symbol)
	}
	s := quote.NormalizeSymbol(symbol)
	return &quote.Quote{Symbol: s, Name: s + " Inc.", Price: decimal.NewFromInt(100)}, nil
}

type mockTradeService struct {
	buyFn         func(userID, symbol string, shares int64) (*models.Trade, error)
	sellFn        func(userID, symbol string, shares int64) (*models.Trade, error)
	heldSymbolsFn func(userID string) ([]string, error)
	historyFn     func(userID string) ([]models.Trade, error)
	historyPageFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error)
}

func (m *mockTradeService) Buy(_ context.Context, userID, symbol string, shares int64) (*models.Trade, error) {
	if m.buyFn != nil {
		return m.buyFn(userID, symbol, shares)
	}
	return &models.Trade{ID: "trade1", UserID: userID, Symbol: symbol, Shares: shares}, nil
}

func (m *mockTradeService) Sell(_ context.Context, userID, symbol string, shares int64) (*models.Trade, error) {
	if m.sellFn != nil {
		return m.sellFn(userID, symbol, shares)
	}
	return &models.Trade{ID: "trade2", UserID: userID, Symbol: symbol, Shares: -shares}, nil
}

func (m *mockTradeService) HeldSymbols(_ context.Context, userID string) ([]string, error) {
	if m.heldSymbolsFn != nil {
		return m.heldSymbolsFn(userID)
	}
	return nil, nil
}

func (m *mockTradeService) History(_ context.Context, userID string) ([]models.Trade, error) {
	if m.historyFn != nil {
		return m.historyFn(userID)
	}
	return nil, nil
}

func (m *mockTradeService) HistoryPage(_ context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Trade], error) {
	if m.historyPageFn != nil {
		return m.historyPageFn(userID, page)
	}
	page.Defaults()
	resp := pagination.NewPageResponse[models.Trade](nil, page.Page, page.PageSize, 0)
	return &resp, nil
}

type mockPortfolioService struct {
	getPortfolioFn func(userID string) (*services.Portfolio, error)
}

func (m *mockPortfolioService) GetPortfolio(_ context.Context, userID string) (*services.Portfolio, error) {
	if m.getPortfolioFn != nil {
		return m.getPortfolioFn(userID)
	}
	return &services.Portfolio{Cash: decimal.NewFromInt(10000), GrandTotal: decimal.NewFromInt(10000)}, nil
}

type mockCashService struct {
	depositFn  func(userID string, amount decimal.Decimal) (*models.User, error)
	withdrawFn func(userID string, amount decimal.Decimal) (*models.User, error)
}

func (m *mockCashService) Deposit(_ context.Context, userID string, amount decimal.Decimal) (*models.User, error) {
	if m.depositFn != nil {
		return m.depositFn(userID, amount)
	}
	return &models.User{Base: models.Base{ID: userID}, Cash: amount}, nil
}

func (m *mockCashService) Withdraw(_ context.Context, userID string, amount decimal.Decimal) (*models.User, error) {
	if m.withdrawFn != nil {
		return m.withdrawFn(userID, amount)
	}
	return &models.User{Base: models.Base{ID: userID}}, nil
}

type mockAuditService struct {
	mu      sync.Mutex
	actions []string
	changes []map[string]any
}

func (m *mockAuditService) Log(_ context.Context, _, action, _, _, _ string, changes map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
	m.changes = append(m.changes, changes)
}

func (m *mockAuditService) lastChanges() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.changes) == 0 {
		return nil
	}
	return m.changes[len(m.changes)-1]
}

func (m *mockAuditService) logged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.actions...)
}

type mockSessionStore struct {
	created   []string
	destroyed []string
	createErr error
}

func (m *mockSessionStore) Create(_ context.Context, userID string) (*models.Session, string, error) {
	if m.createErr != nil {
		return nil, "", m.createErr
	}
	m.created = append(m.created, userID)
	return &models.Session{ID: "sess-" + userID, UserID: userID}, "token-" + userID, nil
}

func (m *mockSessionStore) Destroy(_ context.Context, token string) error {
	m.destroyed = append(m.destroyed, token)
	return nil
}

func (m *mockSessionStore) SetCookie(c *gin.Context, token string) {
	c.SetCookie(session.CookieName, token, 0, "/", "", false, true)
}

func (m *mockSessionStore) ClearCookie(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
}

type mockPinger struct{ err error }

func (m mockPinger) Ping(context.Context) error { return m.err }

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	logger.Init("test")
}

var renderer = web.MustNewRenderer()

func newTestRouter() *gin.Engine {
	r := gin.New()
	r.HTMLRender = renderer
	r.Use(middleware.ErrorHandler())
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetUserID(c, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertRedirectHome(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q\nbody: %s", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
}

func assertPage(t *testing.T, rec *httptest.ResponseRecorder, status int, want string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d", status, rec.Code)
	}
	if !strings.Contains(rec.Body.String(), want) {
		t.Errorf("expected body containing %q, got:\n%s", want, rec.Body.String())
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck
		}
	}
	return nil
}
