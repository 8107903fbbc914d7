// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["User"],
                "summary": "Current user",
                "description": "Returns the caller's profile together with their notes, newest first.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.ProfileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        },
        "/user/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["User"],
                "summary": "Sign up",
                "description": "Registers a user and returns a fresh access/refresh pair.",
                "parameters": [
                    {"description": "New user", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transport.SignupRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.TokenPairResponse"}},
                    "400": {"description": "Empty request, invalid field or already exists", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        },
        "/user/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["User"],
                "summary": "Log in",
                "description": "Checks credentials and returns a fresh access/refresh pair. Earlier pairs stay valid.",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transport.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.TokenPairResponse"}},
                    "400": {"description": "Empty request, not found or invalid credentials", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        },
        "/user/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["User"],
                "summary": "Rotate tokens",
                "description": "Exchanges a refresh token for a new pair. Each refresh token can be exchanged once.",
                "parameters": [
                    {"description": "Refresh token", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transport.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.TokenPairResponse"}},
                    "400": {"description": "Empty request or refresh token not provided", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "401": {"description": "Refresh token expired", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        },
        "/notes": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "List notes",
                "description": "Returns the caller's notes, newest first. Answers 204 when there are none.",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.NotesResponse"}},
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Create a note",
                "parameters": [
                    {"description": "Note", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transport.NoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/transport.MessageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        },
        "/notes/search": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Search notes",
                "description": "Full-text search over the caller's notes.",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "description": "Max results (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.NotesResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        },
        "/notes/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Get a note",
                "parameters": [
                    {"type": "string", "description": "Note ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Note"}},
                    "400": {"description": "note not found", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Update a note",
                "parameters": [
                    {"type": "string", "description": "Note ID", "name": "id", "in": "path", "required": true},
                    {"description": "New value and color", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/transport.NoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.MessageResponse"}},
                    "400": {"description": "Empty request or note not found", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Notes"],
                "summary": "Delete a note",
                "parameters": [
                    {"type": "string", "description": "Note ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/transport.MessageResponse"}},
                    "400": {"description": "note not found", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/transport.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.Note": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "value": {"type": "string"},
                "color": {"type": "string"},
                "owner": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "transport.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "transport.MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "id": {"type": "string"}}
        },
        "transport.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "transport.NoteRequest": {
            "type": "object",
            "required": ["color", "value"],
            "properties": {"color": {"type": "string"}, "value": {"type": "string"}}
        },
        "transport.NotesResponse": {
            "type": "object",
            "properties": {"notes": {"type": "array", "items": {"$ref": "#/definitions/models.Note"}}}
        },
        "transport.ProfileResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "username": {"type": "string"},
                "notes": {"type": "array", "items": {"$ref": "#/definitions/models.Note"}}
            }
        },
        "transport.RefreshRequest": {
            "type": "object",
            "properties": {"refreshToken": {"type": "string"}}
        },
        "transport.SignupRequest": {
            "type": "object",
            "required": ["email", "firstName", "lastName", "password"],
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "transport.TokenPairResponse": {
            "type": "object",
            "properties": {"accessToken": {"type": "string"}, "refreshToken": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the access token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{"http", "https"},
	Title:            "noteet API",
	Description:      "Minimal note-taking backend with access/refresh token rotation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
