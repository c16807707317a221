// Package docs holds the OpenAPI description served at /api/swagger.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/feed": {
            "get": {
                "tags": ["feed"],
                "summary": "Service request feed",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/users/profile/{username}": {
            "get": {
                "tags": ["users"],
                "summary": "Public profile",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/users/me/profile": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Edit own profile",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/users/{username}/rating": {
            "get": {
                "tags": ["users"],
                "summary": "Average rating",
                "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/skills": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["skills"],
                "summary": "Offer a skill",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/skills/mine": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["skills"],
                "summary": "Own skills",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/requests": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["requests"],
                "summary": "Request a skill",
                "parameters": [{"type": "integer", "name": "skill", "in": "query"}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}
            }
        },
        "/requests/new": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["requests"],
                "summary": "Skills available to request",
                "parameters": [{"type": "integer", "name": "skill", "in": "query"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/requests/{id}/status": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["requests"],
                "summary": "Accept, complete or cancel a request",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/requests/{id}/review": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["reviews"],
                "summary": "Review the provider of a completed request",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "403": {"description": "Forbidden"},
                    "409": {"description": "Conflict"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8375",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "SkillSwap API",
	Description:      "Skill exchange marketplace: profiles, skills, service requests, reviews and chat",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
