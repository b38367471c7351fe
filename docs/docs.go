package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "Personal task management API with owner-scoped task records.",
        "title": "TaskHive API",
        "version": "1.0"
    },
    "host": "localhost:8080",
    "basePath": "/api",
    "schemes": ["http"],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type 'Bearer' followed by a space and JWT token"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Account created"},
                    "400": {"description": "Validation failed"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log in with email and password",
                "responses": {
                    "200": {"description": "Logged in"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Exchange a refresh token for a new token pair",
                "responses": {
                    "200": {"description": "Token refreshed"},
                    "401": {"description": "Invalid token"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get the authenticated user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Current user"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Log out and revoke the refresh token",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Logged out"}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List the caller's tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "completed", "in": "query", "type": "string"},
                    {"name": "tag", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "string"},
                    {"name": "dueDate", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Filtered task list, newest first"}
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Create a task",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Task created"},
                    "400": {"description": "Validation failed"}
                }
            }
        },
        "/tasks/{id}": {
            "put": {
                "tags": ["Tasks"],
                "summary": "Apply a partial update to an owned task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Task updated"},
                    "404": {"description": "Task not found"}
                }
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete an owned task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Task deleted"},
                    "404": {"description": "Task not found"}
                }
            }
        },
        "/tasks/{id}/toggle": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Flip the completion flag of an owned task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Task toggled"},
                    "404": {"description": "Task not found"}
                }
            }
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http"},
	Title:            "TaskHive API",
	Description:      "Personal task management API with owner-scoped task records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
