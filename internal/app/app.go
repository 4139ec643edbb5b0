// Package app wires configuration, storage, quotes and HTTP handlers into
// the gin engine served by cmd/api.
package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"finance/internal/config"
	_ "finance/internal/docs" // registers swagger docs
	"finance/internal/handlers"
	"finance/internal/middleware"
	"finance/internal/quote"
	"finance/internal/services"
	"finance/internal/session"
	"finance/internal/validator"
	"finance/internal/web"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Pinger handlers.Pinger
	Quotes quote.Provider
}

// NewQuoteProvider builds the quote source selected by QUOTE_PROVIDER.
func NewQuoteProvider(cfg *config.Config) (quote.Provider, error) {
	switch cfg.QuoteProvider {
	case config.QuoteProviderStatic:
		return quote.LoadFixtures(cfg.QuoteFixtures)
	case config.QuoteProviderHTTP:
		client := &http.Client{Timeout: cfg.QuoteTimeout}
		return quote.NewHTTPProvider(client, cfg.QuoteAPIURL, cfg.APIKey, quote.Paths{
			Name:   cfg.QuoteNamePath,
			Price:  cfg.QuotePricePath,
			Symbol: cfg.QuoteSymbolPath,
		}), nil
	default:
		return nil, fmt.Errorf("unknown quote provider %q", cfg.QuoteProvider)
	}
}

// NewRouter builds the gin engine with every page and API route.
func NewRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	validator.Register()

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	// Services
	sessions := session.NewManager(deps.DB, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	userService := services.NewUserService(deps.DB, cfg.StartingCash)
	quoteService := services.NewQuoteService(deps.Quotes)
	tradeService := services.NewTradeService(deps.DB, quoteService)
	portfolioService := services.NewPortfolioService(deps.DB, quoteService)
	cashService := services.NewCashService(deps.DB)
	auditService := services.NewAuditService(deps.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessions, auditService)
	tradeHandler := handlers.NewTradeHandler(tradeService, quoteService, portfolioService, auditService)
	cashHandler := handlers.NewCashHandler(cashService, userService, auditService)
	apiHandler := handlers.NewAPIHandler(quoteService, portfolioService, tradeService, deps.Pinger)

	router := gin.New()
	router.HTMLRender = renderer
	router.HandleMethodNotAllowed = true
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.NoCache())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.LoadSession(sessions))
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Public pages
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/logout", authHandler.Logout)

	// Pages that need a login
	pages := router.Group("/")
	pages.Use(middleware.RequireLogin())
	pages.GET("/", tradeHandler.Index)
	pages.GET("/quote", tradeHandler.ShowQuote)
	pages.POST("/quote", tradeHandler.Quote)
	pages.GET("/buy", tradeHandler.ShowBuy)
	pages.POST("/buy", tradeHandler.Buy)
	pages.GET("/sell", tradeHandler.ShowSell)
	pages.POST("/sell", tradeHandler.Sell)
	pages.GET("/history", tradeHandler.History)
	pages.GET("/add_money", cashHandler.ShowAddMoney)
	pages.POST("/add_money", cashHandler.AddMoney)
	pages.GET("/remove_money", cashHandler.ShowRemoveMoney)
	pages.POST("/remove_money", cashHandler.RemoveMoney)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// JSON API
	router.GET("/api/health", apiHandler.Health)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireLogin())
	v1.GET("/quote/:symbol", apiHandler.Quote)
	v1.GET("/portfolio", apiHandler.Portfolio)
	v1.GET("/history", apiHandler.History)

	return router, nil
}
