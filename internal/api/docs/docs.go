// Package docs registers the OpenAPI description of the gateway with swag.
// The schema mirrors the swag annotations on the handlers.
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
        "/stories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "List stories",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"type": "boolean", "description": "Re-fetch the list from the store", "name": "refresh", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.storiesResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Post a story",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"description": "Story fields", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createStoryRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.storyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/stories/{storyId}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["stories"],
                "summary": "Delete an own story",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"type": "string", "description": "Story id", "name": "storyId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.storyResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign up",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"description": "Account details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signupRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Log out",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Current user",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me/favorites": {
            "get": {
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Favorite stories",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.storiesResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me/stories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Own stories",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.storiesResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me/favorites/{storyId}": {
            "post": {
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Favorite a story",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"type": "string", "description": "Story id", "name": "storyId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.favoriteResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Unfavorite a story",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"type": "string", "description": "Story id", "name": "storyId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.favoriteResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/me/favorites/{storyId}/toggle": {
            "put": {
                "produces": ["application/json"],
                "tags": ["me"],
                "summary": "Toggle favorite",
                "parameters": [
                    {"type": "string", "description": "Session scope id", "name": "X-Session-ID", "in": "header"},
                    {"type": "string", "description": "Story id", "name": "storyId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.favoriteResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.createStoryRequest": {
            "type": "object",
            "required": ["author", "title", "url"],
            "properties": {
                "author": {"type": "string", "maxLength": 100},
                "title": {"type": "string", "maxLength": 200},
                "url": {"type": "string"}
            }
        },
        "handler.signupRequest": {
            "type": "object",
            "required": ["name", "password", "username"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "password": {"type": "string"},
                "username": {"type": "string", "maxLength": 50}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "handler.storyView": {
            "type": "object",
            "properties": {
                "storyId": {"type": "string"},
                "title": {"type": "string"},
                "author": {"type": "string"},
                "url": {"type": "string"},
                "hostname": {"type": "string"},
                "username": {"type": "string"},
                "createdAt": {"type": "string"},
                "favorite": {"type": "boolean"},
                "own": {"type": "boolean"}
            }
        },
        "handler.storiesResponse": {
            "type": "object",
            "properties": {
                "stories": {"type": "array", "items": {"$ref": "#/definitions/handler.storyView"}}
            }
        },
        "handler.storyResponse": {
            "type": "object",
            "properties": {"story": {"$ref": "#/definitions/handler.storyView"}}
        },
        "handler.userView": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "name": {"type": "string"},
                "createdAt": {"type": "string"},
                "favoritesCount": {"type": "integer"},
                "storiesCount": {"type": "integer"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/handler.userView"}}
        },
        "handler.favoriteResponse": {
            "type": "object",
            "properties": {
                "storyId": {"type": "string"},
                "favorite": {"type": "boolean"}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "array", "items": {"$ref": "#/definitions/handler.dependencyStatus"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Story client gateway",
	Description:      "Browser-facing gateway to the Hack or Snooze story store.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
