package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SlotWise API",
        "description": "Appointment availability and booking engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Calendars", "description": "Tenant calendar configuration"},
        {"name": "Rules", "description": "Weekly and date-specific availability rules"},
        {"name": "Availability", "description": "Public bookable slot windows"},
        {"name": "Bookings", "description": "Reservations and their lifecycle"},
        {"name": "Exports", "description": "Booking report downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/calendars": {
            "get": {
                "tags": ["Calendars"],
                "summary": "List calendars",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Calendars"],
                "summary": "Create calendar",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCalendarRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/api/v1/calendars/{id}": {
            "get": {
                "tags": ["Calendars"],
                "summary": "Get calendar",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Calendars"],
                "summary": "Update calendar",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCalendarRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Calendars"],
                "summary": "Deactivate calendar",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deactivated"}
                }
            }
        },
        "/api/v1/calendars/{id}/rules": {
            "get": {
                "tags": ["Rules"],
                "summary": "List availability rules",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Rules"],
                "summary": "Replace the whole rule set atomically",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReplaceRulesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/api/v1/calendars/{id}/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "Get bookable slots",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "from", "in": "query", "type": "string", "description": "First local date (YYYY-MM-DD)"},
                    {"name": "to", "in": "query", "type": "string", "description": "Last local date, inclusive"},
                    {"name": "days", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"},
                    "409": {"description": "Calendar inactive"}
                }
            }
        },
        "/api/v1/calendars/{id}/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List bookings",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Reserve a slot",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot no longer available"}
                }
            }
        },
        "/api/v1/calendars/{id}/bookings/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download bookings as CSV or PDF",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"}
                }
            }
        },
        "/api/v1/bookings/{id}": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Get booking",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/bookings/{id}/accept": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Confirm a pending booking",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/api/v1/bookings/{id}/decline": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Decline a pending booking",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/TransitionBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/api/v1/bookings/{id}/cancel": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Cancel a booking",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/TransitionBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/api/v1/bookings/{id}/complete": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Mark a booking as held",
                "parameters": [
                    {"name": "X-Tenant-ID", "in": "header", "type": "string", "required": true},
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        }
    },
    "definitions": {
        "CreateCalendarRequest": {
            "type": "object",
            "required": ["name", "owner_email", "duration_minutes", "timezone", "booking_window_days"],
            "properties": {
                "name": {"type": "string"},
                "owner_email": {"type": "string"},
                "description": {"type": "string"},
                "duration_minutes": {"type": "integer"},
                "buffer_before_minutes": {"type": "integer"},
                "buffer_after_minutes": {"type": "integer"},
                "timezone": {"type": "string", "example": "America/New_York"},
                "booking_window_days": {"type": "integer"},
                "min_notice_minutes": {"type": "integer"},
                "requires_confirmation": {"type": "boolean"}
            }
        },
        "RuleInput": {
            "type": "object",
            "required": ["type", "start_minute", "end_minute"],
            "properties": {
                "type": {"type": "string", "enum": ["WEEKLY", "DATE"]},
                "weekday": {"type": "integer", "minimum": 0, "maximum": 6},
                "date": {"type": "string", "example": "2026-09-01"},
                "start_minute": {"type": "integer"},
                "end_minute": {"type": "integer"},
                "is_unavailable": {"type": "boolean"}
            }
        },
        "ReplaceRulesRequest": {
            "type": "object",
            "properties": {
                "rules": {"type": "array", "items": {"$ref": "#/definitions/RuleInput"}}
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "required": ["guest_name", "guest_email", "start"],
            "properties": {
                "guest_name": {"type": "string"},
                "guest_email": {"type": "string"},
                "guest_timezone": {"type": "string"},
                "notes": {"type": "string"},
                "start": {"type": "string", "format": "date-time"}
            }
        },
        "TransitionBookingRequest": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
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
