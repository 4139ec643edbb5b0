// Package docs registers the OpenAPI description of the JSON API with swag.
// Regenerate with: swag init -g cmd/api/main.go -o internal/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Reports whether the service and its database are reachable",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/v1/quote/{symbol}": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Returns the company name and current share price for a ticker symbol",
                "produces": ["application/json"],
                "tags": ["quotes"],
                "summary": "Look up a quote",
                "parameters": [
                    {"type": "string", "example": "AAPL", "description": "Ticker symbol", "name": "symbol", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.QuoteResponse"}},
                    "400": {"description": "Unknown symbol", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "502": {"description": "Quote source unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/v1/portfolio": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Returns open positions valued at current prices, cash and grand total",
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Get portfolio",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.Portfolio"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "500": {"description": "Server error", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/v1/history": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Returns the user's trades in execution order, paginated",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "List trades",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 25, max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pagination.PageResponse-models_Trade"}},
                    "400": {"description": "Invalid pagination", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "401": {"description": "Not logged in", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string", "example": "SYMBOL_NOT_FOUND"},
                        "message": {"type": "string", "example": "invalid symbol"}
                    }
                }
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "database": {"type": "string", "example": "ok"},
                "status": {"type": "string", "example": "ok"}
            }
        },
        "handlers.QuoteResponse": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Apple Inc."},
                "price": {"type": "string", "example": "189.25"},
                "symbol": {"type": "string", "example": "AAPL"}
            }
        },
        "services.Holding": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "price": {"type": "string", "example": "189.25"},
                "shares": {"type": "integer"},
                "stale": {"type": "boolean"},
                "symbol": {"type": "string"},
                "total": {"type": "string", "example": "1892.5"}
            }
        },
        "services.Portfolio": {
            "type": "object",
            "properties": {
                "cash": {"type": "string", "example": "9000"},
                "grand_total": {"type": "string", "example": "10000"},
                "holdings": {"type": "array", "items": {"$ref": "#/definitions/services.Holding"}},
                "holdings_total": {"type": "string", "example": "1000"}
            }
        },
        "models.Trade": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "01HZX3V6J8Q2M4N5P6R7S8T9VW"},
                "price": {"type": "string", "example": "100"},
                "shares": {"type": "integer", "example": -4},
                "symbol": {"type": "string", "example": "AAPL"},
                "traded_at": {"type": "string", "format": "date-time"},
                "user_id": {"type": "string"}
            }
        },
        "pagination.PageResponse-models_Trade": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Trade"}},
                "has_next": {"type": "boolean"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "description": "Session cookie set by POST /login.",
            "type": "apiKey",
            "name": "session",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Finance API",
	Description:      "Read-only JSON view of the stock-trading simulator: quotes, portfolio and trade history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
