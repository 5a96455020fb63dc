// Package docs registra o documento OpenAPI servido em /swagger.
// Regenerar com: swag init -g cmd/api/docs.go -o docs
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
        "/assistant/chat": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Interpreta a mensagem, pergunta o que faltar, devolve o preview da ação ou executa a ação de um confirm_token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assistant"],
                "summary": "Envia uma mensagem ao assistente",
                "parameters": [
                    {"description": "Mensagem", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/assistant.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/assistant.Response"}}
                }
            }
        },
        "/modules": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["modules"],
                "summary": "Lista os módulos",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.ModuleResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"Bearer": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["modules"],
                "summary": "Atualiza um módulo",
                "parameters": [
                    {"description": "Módulo", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ModuleUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"allOf": [{"$ref": "#/definitions/dto.SuccessResponse"}, {"type": "object", "properties": {"data": {"$ref": "#/definitions/dto.ModuleResponse"}}}]}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Verifica a saúde do serviço",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        }
    },
    "definitions": {
        "dto.EntityContextRequest": {
            "type": "object",
            "properties": {
                "task_id": {"type": "integer"},
                "lead_id": {"type": "integer"},
                "product_id": {"type": "integer"},
                "almacen_id": {"type": "integer"},
                "almacen_origen_id": {"type": "integer"},
                "almacen_destino_id": {"type": "integer"}
            }
        },
        "dto.ChatRequest": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "confirm_token": {"type": "string"},
                "current_module": {"type": "string"},
                "current_route": {"type": "string"},
                "entity_context": {"$ref": "#/definitions/dto.EntityContextRequest"},
                "user_locale": {"type": "string"}
            }
        },
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "dto.SuccessResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {}
            }
        },
        "dto.ModuleResponse": {
            "type": "object",
            "properties": {
                "nombre": {"type": "string"},
                "habilitado": {"type": "boolean"}
            }
        },
        "dto.ModuleUpdateRequest": {
            "type": "object",
            "required": ["nombre", "habilitado"],
            "properties": {
                "organizacion_id": {"type": "string"},
                "nombre": {"type": "string"},
                "habilitado": {"type": "boolean"}
            }
        },
        "assistant.Response": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["help", "message", "question", "error", "action_preview", "action_result", "summary"]},
                "text": {"type": "string"},
                "field": {"type": "string"},
                "action": {"type": "string"},
                "payload_preview": {"type": "object"},
                "confirm_token": {"type": "string"},
                "steps": {"type": "array", "items": {"type": "string"}},
                "result": {"type": "object"},
                "summary_type": {"type": "string"},
                "items": {"type": "array", "items": {"type": "object"}},
                "deep_link": {"type": "string"},
                "correlation_id": {"type": "string"},
                "debug": {"type": "object"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo guarda as informações exportadas do documento
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Vex Core API",
	Description:      "Assistente conversacional de ações dos módulos core, crm e stock",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
