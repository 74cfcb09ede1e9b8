// Package docs holds the OpenAPI document served at /api/docs
// regenerate with: swag init --v3.1 -g cmd/assistify-api/main.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.0.3",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "components": {
        "securitySchemes": {
            "BearerAuth": {"type": "http", "scheme": "bearer"}
        },
        "schemas": {
            "ChatInput": {
                "type": "object",
                "required": ["message"],
                "properties": {
                    "message": {"type": "string", "example": "refund order #1042"},
                    "session_id": {"type": "string", "example": "s-9f1c"},
                    "context": {"type": "string", "enum": ["admin", "customer"]}
                }
            },
            "ConfirmInput": {
                "type": "object",
                "required": ["confirmation_token"],
                "properties": {
                    "confirmation_token": {"type": "string"},
                    "confirmation_code": {"type": "string", "example": "REFUND"},
                    "session_id": {"type": "string"}
                }
            },
            "CancelInput": {
                "type": "object",
                "required": ["confirmation_token"],
                "properties": {
                    "confirmation_token": {"type": "string"},
                    "session_id": {"type": "string"}
                }
            },
            "ClassifyInput": {
                "type": "object",
                "required": ["message"],
                "properties": {
                    "message": {"type": "string"},
                    "context": {"type": "string", "enum": ["admin", "customer", "any"]}
                }
            },
            "ChatOutput": {
                "type": "object",
                "properties": {
                    "understood": {"type": "boolean"},
                    "requires_confirmation": {"type": "boolean"},
                    "confirmation_token": {"type": "string"},
                    "preview": {"type": "string", "example": "Refund full amount from Order #1042"},
                    "is_destructive": {"type": "boolean"},
                    "expires_in": {"type": "integer", "example": 300},
                    "confirmation_level": {"type": "string", "enum": ["none", "single", "double"]},
                    "confirmation_code": {"type": "string", "example": "REFUND"},
                    "intent": {"type": "string"},
                    "ability_id": {"type": "string"},
                    "params": {"type": "object"},
                    "result": {},
                    "message": {"type": "string"},
                    "suggestions": {"type": "array", "items": {"type": "string"}}
                }
            },
            "CancelOutput": {
                "type": "object",
                "properties": {"success": {"type": "boolean"}}
            },
            "Envelope": {
                "type": "object",
                "properties": {
                    "status_code": {"type": "integer"},
                    "status": {"type": "string"},
                    "code": {"type": "integer"},
                    "error": {"type": "string"},
                    "field": {"type": "string"},
                    "request_id": {"type": "string"},
                    "data": {}
                }
            }
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/assistant/chat": {
            "post": {
                "tags": ["assistant"],
                "summary": "Send a message to the assistant",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ChatInput"}}}},
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
                    "403": {"description": "admin context without admin role"},
                    "422": {"description": "invalid input"},
                    "502": {"description": "ability failed"}
                }
            }
        },
        "/assistant/confirm": {
            "post": {
                "tags": ["assistant"],
                "summary": "Confirm a pending action",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ConfirmInput"}}}},
                "responses": {
                    "200": {"description": "executed", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
                    "403": {"description": "token belongs to another user"},
                    "410": {"description": "expired or already used"},
                    "422": {"description": "wrong confirmation code"},
                    "502": {"description": "ability failed"}
                }
            }
        },
        "/assistant/cancel": {
            "post": {
                "tags": ["assistant"],
                "summary": "Cancel a pending action",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CancelInput"}}}},
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/assistant/classify": {
            "post": {
                "tags": ["assistant"],
                "summary": "Explain how a message would be routed",
                "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ClassifyInput"}}}},
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/assistant/intents": {
            "get": {
                "tags": ["assistant"],
                "summary": "List intents visible to a scope",
                "parameters": [{"name": "scope", "in": "query", "schema": {"type": "string"}}],
                "responses": {"200": {"description": "ok"}, "403": {"description": "admin scope without admin role"}}
            }
        },
        "/assistant/audit": {
            "get": {
                "tags": ["assistant"],
                "summary": "Recent assistant actions",
                "parameters": [
                    {"name": "ability_id", "in": "query", "schema": {"type": "string"}},
                    {"name": "user_id", "in": "query", "schema": {"type": "string"}},
                    {"name": "since", "in": "query", "schema": {"type": "string", "format": "date-time"}},
                    {"name": "limit", "in": "query", "schema": {"type": "integer", "minimum": 1, "maximum": 500}}
                ],
                "responses": {"200": {"description": "ok"}, "403": {"description": "admin only"}, "503": {"description": "audit store not configured"}}
            }
        },
        "/meta/health": {"get": {"tags": ["Meta"], "summary": "Health check", "security": [], "responses": {"200": {"description": "ok"}}}},
        "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "security": [], "responses": {"200": {"description": "ok"}}}},
        "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "security": [], "responses": {"200": {"description": "ok"}}}},
        "/meta/service": {"get": {"tags": ["Meta"], "summary": "Service info and uptime", "security": [], "responses": {"200": {"description": "ok"}}}},
        "/meta/catalog": {"get": {"tags": ["Meta"], "summary": "Intent catalogue digest and counts", "security": [], "responses": {"200": {"description": "ok"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.3.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Assistify API",
	Description:      "Conversational command layer for store admins and shoppers",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
