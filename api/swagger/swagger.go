package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Forma API",
        "description": "Training centre administration: rosters, scheduling, trainer availability and progress reporting",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "auth", "description": "Authentication"},
        {"name": "trainers", "description": "Trainer roster"},
        {"name": "trainees", "description": "Trainee roster"},
        {"name": "courses", "description": "Courses and modules"},
        {"name": "rooms", "description": "Classrooms"},
        {"name": "classes", "description": "Classes and enrollments"},
        {"name": "schedule", "description": "Lesson blocks"},
        {"name": "availability", "description": "Trainer availability windows"},
        {"name": "progress", "description": "Taught hours and module progress"},
        {"name": "evaluations", "description": "Module grading"},
        {"name": "reports", "description": "CSV/PDF exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Authenticate a user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange a refresh token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Revoke all refresh tokens of the caller",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/trainers": {
            "get": {
                "tags": ["trainers"],
                "summary": "List trainers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["trainers"],
                "summary": "Register a trainer",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTrainerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/trainers/{trainer_id}": {
            "get": {
                "tags": ["trainers"],
                "summary": "Get trainer",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["trainers"],
                "summary": "Update trainer",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTrainerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["trainers"],
                "summary": "Deactivate trainer",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/trainers/{trainer_id}/availability": {
            "get": {
                "tags": ["availability"],
                "summary": "Reconciled availability of a trainer",
                "description": "Partitions each declared window into available and occupied segments against the trainer's lessons.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "path", "required": true, "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/trainers/{trainer_id}/hours": {
            "get": {
                "tags": ["progress"],
                "summary": "Taught hours of a trainer in a date range",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "path", "required": true, "type": "string"},
                    {"name": "date_from", "in": "query", "required": true, "type": "string"},
                    {"name": "date_to", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trainers/{trainer_id}/hours/month": {
            "get": {
                "tags": ["progress"],
                "summary": "Taught hours of a trainer for a calendar month",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "path", "required": true, "type": "string"},
                    {"name": "previous", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/availability": {
            "post": {
                "tags": ["availability"],
                "summary": "Declare an availability window",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateWindowRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/availability/{id}": {
            "delete": {
                "tags": ["availability"],
                "summary": "Delete an availability window",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/availability/range": {
            "post": {
                "tags": ["availability"],
                "summary": "Declare windows across a date range",
                "description": "Creates one window per weekday of the range with the same daily band. All-or-nothing.",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WindowRangeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict"}
                }
            },
            "delete": {
                "tags": ["availability"],
                "summary": "Delete windows matching a band across a date range",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WindowRangeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/schedule": {
            "get": {
                "tags": ["schedule"],
                "summary": "List schedule blocks",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "trainer_id", "in": "query", "type": "string"},
                    {"name": "class_id", "in": "query", "type": "string"},
                    {"name": "room_id", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["schedule"],
                "summary": "Commit a lesson block",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateScheduleBlockRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict"}
                }
            }
        },
        "/classes/{class_id}/modules/{module_id}/progress": {
            "get": {
                "tags": ["progress"],
                "summary": "Teaching status of a module within a class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "class_id", "in": "path", "required": true, "type": "string"},
                    {"name": "module_id", "in": "path", "required": true, "type": "string"},
                    {"name": "trainer_id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateTrainerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "expertise": {"type": "string"},
                "user_id": {"type": "string"}
            },
            "required": ["email", "full_name"]
        },
        "UpdateTrainerRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "expertise": {"type": "string"},
                "active": {"type": "boolean"}
            }
        },
        "CreateWindowRequest": {
            "type": "object",
            "properties": {
                "trainer_id": {"type": "string"},
                "date": {"type": "string", "example": "2026-10-05"},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "12:00"}
            },
            "required": ["trainer_id", "date", "start_time", "end_time"]
        },
        "WindowRangeRequest": {
            "type": "object",
            "properties": {
                "trainer_id": {"type": "string"},
                "date_from": {"type": "string", "example": "2026-10-05"},
                "date_to": {"type": "string", "example": "2026-10-30"},
                "start_time": {"type": "string", "example": "08:00"},
                "end_time": {"type": "string", "example": "12:00"}
            },
            "required": ["trainer_id", "date_from", "date_to", "start_time", "end_time"]
        },
        "CreateScheduleBlockRequest": {
            "type": "object",
            "properties": {
                "trainer_id": {"type": "string"},
                "class_id": {"type": "string"},
                "module_id": {"type": "string"},
                "room_id": {"type": "string"},
                "date": {"type": "string", "example": "2026-10-05"},
                "start_time": {"type": "string", "example": "09:00"},
                "end_time": {"type": "string", "example": "10:00"}
            },
            "required": ["trainer_id", "class_id", "module_id", "room_id", "date", "start_time", "end_time"]
        },
        "ReconciledSegment": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "start_time": {"type": "string"},
                "end_time": {"type": "string"},
                "label": {"type": "string", "enum": ["AVAILABLE", "OCCUPIED"]},
                "block_id": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
