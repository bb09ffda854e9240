package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Timetable API",
        "description": "Timetable allocation and conflict resolution for campus scheduling",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Sign-in and token lifecycle"},
        {"name": "Catalog", "description": "Rooms, faculty, courses, slots, sessions, programs"},
        {"name": "Assignments", "description": "Class booking lifecycle with conflict checks"},
        {"name": "Timetable", "description": "Grid projections and reports"},
        {"name": "Enrollments", "description": "Student course assignments and enrollment resolution"}
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
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "Token pair issued"},
                    "401": {"description": "Token expired or revoked"}
                }
            }
        },
        "/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "responses": {
                    "200": {"description": "Assignment details"}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Book a class",
                "responses": {
                    "201": {"description": "Booked"},
                    "400": {"description": "Validation or unknown reference"},
                    "409": {"description": "Room, faculty or course-repeat conflict"}
                }
            }
        },
        "/assignments/{id}": {
            "put": {
                "tags": ["Assignments"],
                "summary": "Rebook a class",
                "responses": {
                    "200": {"description": "Rebooked"},
                    "404": {"description": "Unknown assignment"},
                    "409": {"description": "Conflict with another booking"}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Cancel a booking",
                "responses": {
                    "204": {"description": "Cancelled"},
                    "404": {"description": "Unknown assignment"}
                }
            }
        },
        "/timetable/rooms/{day}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Room occupancy grid for one day",
                "responses": {
                    "200": {"description": "Room grid"}
                }
            }
        },
        "/timetable/faculty/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "One faculty member's weekly schedule",
                "responses": {
                    "200": {"description": "Faculty week"},
                    "403": {"description": "Teachers may only view their own"}
                }
            }
        },
        "/timetable/week": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly grid for a program and semester",
                "responses": {
                    "200": {"description": "Week grid"}
                }
            }
        },
        "/timetable/students/{id}": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Weekly grid for a student's resolved enrollment",
                "responses": {
                    "200": {"description": "Week grid"},
                    "404": {"description": "Student not enrolled"},
                    "409": {"description": "Enrollment ambiguous"}
                }
            }
        },
        "/timetable/report": {
            "get": {
                "tags": ["Timetable"],
                "summary": "Campus-wide weekly report grouped by semester",
                "responses": {
                    "200": {"description": "Semester week grids"}
                }
            }
        }
    },
    "definitions": {
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
                "pagination": {"type": "object"},
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
