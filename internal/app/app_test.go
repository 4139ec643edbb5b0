package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance/internal/config"
	"finance/internal/logger"
	"finance/internal/models"
	"finance/internal/session"
	"finance/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	quotes *testutil.QuoteStub
}

func testConfig() *config.Config {
	return &config.Config{
		Env:           "test",
		SessionSecret: "flow-test-secret",
		SessionTTL:    time.Hour,
		StartingCash:  decimal.RequireFromString("10000.00"),
		QuoteProvider: config.QuoteProviderStatic,
	}
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	stub := testutil.NewQuoteStub("AAPL", "100", "MSFT", "250.50")
	router, err := NewRouter(Deps{
		Config: testConfig(),
		DB:     db,
		Pinger: pingFunc(func(context.Context) error { return nil }),
		Quotes: stub,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return &testApp{router: router, db: db, quotes: stub}
}

// browser keeps the session cookie between requests.
type browser struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.app.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name != session.CookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			b.cookie = nil
		} else {
			b.cookie = ck
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) register(username string) {
	b.t.Helper()
	rec := b.post("/register", url.Values{"username": {username}, "password": {"hunter2"}, "confirmation": {"hunter2"}})
	expectRedirect(b.t, rec, "/")
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != location {
		t.Fatalf("expected redirect to %s, got %d %q\n%s", location, rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
}

func expectPage(t *testing.T, rec *httptest.ResponseRecorder, status int, want ...string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d", status, rec.Code)
	}
	for _, w := range want {
		if !strings.Contains(rec.Body.String(), w) {
			t.Errorf("expected body to contain %q\n%s", w, rec.Body.String())
		}
	}
}

func cashOf(t *testing.T, db *gorm.DB, username string) decimal.Decimal {
	t.Helper()
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		t.Fatalf("load %s: %v", username, err)
	}
	return user.Cash
}

func TestFlow_RegisterBuySellHistory(t *testing.T) {
	a := setupApp(t)
	b := a.browser(t)

	b.register("alice")
	expectPage(t, b.get("/"), http.StatusOK, "$10,000.00")

	expectRedirect(t, b.post("/buy", url.Values{"symbol": {"aapl"}, "shares": {"10"}}), "/")
	expectPage(t, b.get("/"), http.StatusOK, "AAPL", "$1,000.00", "$9,000.00", "$10,000.00")
	if got := cashOf(t, a.db, "alice"); !got.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("expected cash 9000, got %s", got)
	}

	expectPage(t, b.get("/sell"), http.StatusOK, `<option value="AAPL">AAPL</option>`)

	a.quotes.Set("AAPL", "110")
	expectRedirect(t, b.post("/sell", url.Values{"symbol": {"AAPL"}, "shares": {"10"}}), "/")
	if got := cashOf(t, a.db, "alice"); !got.Equal(decimal.NewFromInt(10100)) {
		t.Errorf("expected cash 10100, got %s", got)
	}

	history := b.get("/history")
	expectPage(t, history, http.StatusOK, "$100.00", "$110.00", "-10")
	if n := strings.Count(history.Body.String(), "<td>AAPL</td>"); n != 2 {
		t.Errorf("expected 2 history rows, got %d", n)
	}
}

func TestFlow_RejectedTradesLeaveStateUnchanged(t *testing.T) {
	a := setupApp(t)
	b := a.browser(t)
	b.register("bob")

	expectPage(t, b.post("/buy", url.Values{"symbol": {"MSFT"}, "shares": {"100"}}), http.StatusBadRequest, "not enough cash")
	expectPage(t, b.post("/sell", url.Values{"symbol": {"AAPL"}, "shares": {"1"}}), http.StatusBadRequest, "not enough shares")
	expectPage(t, b.post("/buy", url.Values{"symbol": {"NOPE"}, "shares": {"1"}}), http.StatusBadRequest, "invalid symbol")
	expectPage(t, b.post("/buy", url.Values{"symbol": {"AAPL"}, "shares": {"1.5"}}), http.StatusBadRequest, "positive whole number")

	if got := cashOf(t, a.db, "bob"); !got.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("expected cash 10000, got %s", got)
	}
	var trades int64
	a.db.Model(&models.Trade{}).Count(&trades)
	if trades != 0 {
		t.Errorf("expected no trades, got %d", trades)
	}
}

func TestFlow_DuplicateRegistration(t *testing.T) {
	a := setupApp(t)
	a.browser(t).register("carol")

	rec := a.browser(t).post("/register", url.Values{"username": {"carol"}, "password": {"x"}, "confirmation": {"x"}})
	expectPage(t, rec, http.StatusConflict, "username is already taken")

	var count int64
	a.db.Model(&models.User{}).Where("username = ?", "carol").Count(&count)
	if count != 1 {
		t.Errorf("expected one carol, got %d", count)
	}
}

func TestFlow_LoginFailureAndLogout(t *testing.T) {
	a := setupApp(t)
	a.browser(t).register("dave")

	b := a.browser(t)
	rec := b.post("/login", url.Values{"username": {"dave"}, "password": {"wrong"}})
	expectPage(t, rec, http.StatusForbidden, "invalid username and/or password")
	if b.cookie != nil {
		t.Error("failed login must not set a session")
	}
	expectRedirect(t, b.get("/"), "/login")

	expectRedirect(t, b.post("/login", url.Values{"username": {"dave"}, "password": {"hunter2"}}), "/")
	expectPage(t, b.get("/"), http.StatusOK, "CASH")

	replayed := b.cookie
	expectRedirect(t, b.get("/logout"), "/")
	expectRedirect(t, b.get("/"), "/login")

	// The old cookie no longer names a live session.
	b.cookie = replayed
	expectRedirect(t, b.get("/"), "/login")
}

func TestFlow_Cash(t *testing.T) {
	a := setupApp(t)
	b := a.browser(t)
	b.register("erin")

	expectRedirect(t, b.post("/add_money", url.Values{"amount": {"250.25"}}), "/")
	if got := cashOf(t, a.db, "erin"); !got.Equal(decimal.RequireFromString("10250.25")) {
		t.Errorf("expected 10250.25, got %s", got)
	}

	expectPage(t, b.get("/remove_money"), http.StatusOK, "$10,250.25")
	expectPage(t, b.post("/remove_money", url.Values{"amount": {"20000"}}), http.StatusBadRequest, "not enough cash")
	expectRedirect(t, b.post("/remove_money", url.Values{"amount": {"10250.25"}}), "/")
	if got := cashOf(t, a.db, "erin"); !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
}

func TestFlow_QuoteAndErrors(t *testing.T) {
	a := setupApp(t)
	b := a.browser(t)
	b.register("frank")

	expectPage(t, b.post("/quote", url.Values{"symbol": {"msft"}}), http.StatusOK, "MSFT Inc. (MSFT) costs $250.50")
	expectPage(t, b.post("/quote", url.Values{"symbol": {"ZZZZ"}}), http.StatusBadRequest, "invalid symbol")
	expectPage(t, b.get("/does-not-exist"), http.StatusNotFound, "Not Found")
	expectPage(t, b.do(httptest.NewRequest(http.MethodDelete, "/quote", nil)), http.StatusMethodNotAllowed, "Method Not Allowed")

	rec := b.get("/")
	if rec.Header().Get("Cache-Control") != "no-cache, no-store, must-revalidate" {
		t.Errorf("missing no-cache header: %v", rec.Header())
	}
}

func TestFlow_API(t *testing.T) {
	a := setupApp(t)
	b := a.browser(t)

	rec := b.get("/api/v1/portfolio")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rec.Code)
	}

	expectPage(t, b.get("/api/health"), http.StatusOK, `"status":"ok"`)

	b.register("grace")
	expectRedirect(t, b.post("/buy", url.Values{"symbol": {"AAPL"}, "shares": {"3"}}), "/")

	rec = b.get("/api/v1/portfolio")
	var portfolio struct {
		Holdings []struct {
			Symbol string `json:"symbol"`
			Shares int64  `json:"shares"`
		} `json:"holdings"`
		Cash       decimal.Decimal `json:"cash"`
		GrandTotal decimal.Decimal `json:"grand_total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &portfolio); err != nil {
		t.Fatalf("decode portfolio: %v\n%s", err, rec.Body.String())
	}
	if len(portfolio.Holdings) != 1 || portfolio.Holdings[0].Shares != 3 || !portfolio.Cash.Equal(decimal.NewFromInt(9700)) || !portfolio.GrandTotal.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("unexpected portfolio %+v", portfolio)
	}

	expectPage(t, b.get("/api/v1/history?page=1&page_size=10"), http.StatusOK, `"total_items":1`)
	expectPage(t, b.get("/api/v1/quote/zzzz"), http.StatusBadRequest, `"SYMBOL_NOT_FOUND"`)
	expectPage(t, b.get("/api/v1/nope"), http.StatusNotFound, `"HTTP_404"`)
}

func TestNewQuoteProvider(t *testing.T) {
	cfg := testConfig()

	cfg.QuoteProvider = config.QuoteProviderHTTP
	cfg.QuoteTimeout = time.Second
	p, err := NewQuoteProvider(cfg)
	if err != nil || p.Name() != "quote-api" {
		t.Errorf("expected http provider, got %v, %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "quotes.yaml")
	if err := os.WriteFile(path, []byte("quotes:\n  - symbol: AAPL\n    price: \"1.5\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.QuoteProvider = config.QuoteProviderStatic
	cfg.QuoteFixtures = path
	p, err = NewQuoteProvider(cfg)
	if err != nil {
		t.Fatalf("static provider: %v", err)
	}
	q, err := p.Lookup(context.Background(), "aapl")
	if err != nil || !q.Price.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("unexpected quote %+v, %v", q, err)
	}

	cfg.QuoteProvider = "carrier-pigeon"
	if _, err := NewQuoteProvider(cfg); err == nil {
		t.Error("expected error for unknown provider")
	}
}
