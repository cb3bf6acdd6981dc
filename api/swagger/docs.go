// Package swagger holds the OpenAPI 2.0 document of the DocVault HTTP API,
// registered with swag for gin-swagger. Keep it in sync with the routes in
// internal/docvault/router.
package swagger

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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness",
                "responses": {"200": {"description": "API Online", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness of every backend",
                "responses": {
                    "200": {"description": "all backends healthy", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "a backend is down", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/me": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Caller identity and local role",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MeResponse"}},
                    "401": {"description": "invalid or expired credentials", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/documents": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List documents, newest first (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.DocumentResponse"}}},
                    "403": {"description": "admin role required", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Upload a PDF and start ingestion (admin)",
                "parameters": [{"type": "file", "description": "PDF file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "stored, ingestion scheduled", "schema": {"$ref": "#/definitions/handler.UploadResponse"}},
                    "400": {"description": "not a PDF", "schema": {"$ref": "#/definitions/response.Response"}},
                    "413": {"description": "file too large", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/documents/{id}": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get one document, used to poll its status (admin)",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.DocumentResponse"}},
                    "404": {"description": "document not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Delete a document with its vectors and file (admin)",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "deleted", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "malformed id", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "document not found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/conversations": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "List the caller's conversations, newest first",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.ConversationResponse"}}}}
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Create a conversation",
                "parameters": [{"name": "body", "in": "body", "schema": {"$ref": "#/definitions/handler.CreateConversationRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ConversationResponse"}}}
            }
        },
        "/api/v1/conversations/{id}/messages": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Messages of an owned conversation, oldest first",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.MessageResponse"}}},
                    "404": {"description": "conversation not found or access denied", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/v1/chat": {
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "Ask a question in a conversation",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.ChatRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.ChatResponse"}},
                    "400": {"description": "empty message or malformed id", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "conversation not found or access denied", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "generation failed, the question is kept", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "request_id": {"type": "string"}
            }
        },
        "handler.MeResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "string"},
                "username": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "viewer"]},
                "roles": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.UploadResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "filename": {"type": "string"},
                "status": {"type": "string", "enum": ["processing", "active", "error"]}
            }
        },
        "handler.DocumentResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "filename": {"type": "string"},
                "status": {"type": "string", "enum": ["processing", "active", "error"]},
                "total_chunks": {"type": "integer"},
                "created_at": {"type": "string", "example": "2024-05-01 13:45"}
            }
        },
        "handler.CreateConversationRequest": {
            "type": "object",
            "properties": {"title": {"type": "string", "maxLength": 255}}
        },
        "handler.ConversationResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "handler.MessageResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "sender": {"type": "string", "enum": ["user", "assistant"]},
                "content": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "handler.ChatRequest": {
            "type": "object",
            "required": ["conversation_id", "message"],
            "properties": {
                "conversation_id": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.ChatResponse": {
            "type": "object",
            "properties": {
                "response": {"type": "string"},
                "conversation_id": {"type": "string"},
                "title": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Identity provider access token. Example: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "DocVault API",
	Description:      "Document management and retrieval-augmented chat over uploaded PDFs.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
