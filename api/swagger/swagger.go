package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Course Scheduler API",
        "description": "Assigns every course a lecture and a TA session without overlaps, honouring constraints and a crammed or spaced week.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Scheduler", "description": "Schedule generation and run history"}
    ],
    "paths": {
        "/schedule": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate the best course schedule",
                "description": "An infeasible request returns 200 with data.no_schedule_found set.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ScheduleEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Candidate space too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "504": {"description": "Generation timed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/export": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate a schedule and download it",
                "consumes": ["application/json"],
                "produces": ["text/csv", "application/pdf", "text/plain", "application/json"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "table", "json"], "default": "csv"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Rendered schedule", "schema": {"type": "file"}},
                    "400": {"description": "Validation error or unsupported format", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Candidate space too large", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "504": {"description": "Generation timed out", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/runs": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "List recent schedule generations",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "minimum": 1, "maximum": 100}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "No database configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CourseRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "example": "CS101"},
                "lectures": {"type": "array", "items": {"type": "string"}, "example": ["Mon 9-11", "Wed 9-11"]},
                "ta_times": {"type": "array", "items": {"type": "string"}, "example": ["Tue 10-11 Dana"]}
            }
        },
        "ConstraintRecord": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string", "enum": ["No Class Day", "No Class Before", "No Class After", "Avoid TA"]},
                "day": {"type": "string", "example": "Fri"},
                "time": {"type": "integer", "example": 9},
                "name": {"type": "string", "example": "Dana"}
            }
        },
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["courses"],
            "properties": {
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseRequest"}},
                "preference": {"type": "string", "enum": ["crammed", "spaced"], "default": "crammed"},
                "constraints": {
                    "description": "Array of constraint records, or free text such as \"no classes on Friday\"",
                    "type": "array",
                    "items": {"$ref": "#/definitions/ConstraintRecord"}
                }
            }
        },
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "lecture": {"type": "string", "x-nullable": true},
                "ta": {"type": "string", "x-nullable": true},
                "ta_name": {"type": "string"}
            }
        },
        "ScheduleStats": {
            "type": "object",
            "properties": {
                "candidates": {"type": "integer"},
                "feasible": {"type": "integer"},
                "skipped_constraints": {"type": "integer"},
                "days_used": {"type": "integer"},
                "hour_gaps": {"type": "integer"},
                "preference": {"type": "string"}
            }
        },
        "GenerateScheduleResponse": {
            "type": "object",
            "properties": {
                "schedule": {"type": "array", "items": {"$ref": "#/definitions/ScheduleEntry"}},
                "no_schedule_found": {"type": "boolean"},
                "constraints": {"type": "array", "items": {"$ref": "#/definitions/ConstraintRecord"}},
                "stats": {"$ref": "#/definitions/ScheduleStats"}
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
                "meta": {"type": "object"}
            }
        },
        "ScheduleEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/GenerateScheduleResponse"},
                "meta": {
                    "type": "object",
                    "properties": {
                        "cache_hit": {"type": "boolean"},
                        "processing_time_ms": {"type": "integer"},
                        "request_id": {"type": "string"}
                    }
                }
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
