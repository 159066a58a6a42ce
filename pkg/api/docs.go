package api

import "github.com/swaggo/swag"

// docTemplate is the OpenAPI 2.0 description of the /api/v1 routes. Keep it
// in step with the handler annotations in handlers.go.
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
        "/health": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/pit/inspect": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Unpack a raw PIT sent as the request body and return its header and entries",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["pit"],
                "summary": "Inspect a PIT",
                "parameters": [
                    {"description": "Raw PIT bytes", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Bad file identifier or truncated data", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/pit/find": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Find the first flashable partition matching name or id in the uploaded PIT",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["pit"],
                "summary": "Find a flashable partition",
                "parameters": [
                    {"type": "string", "description": "Partition name", "name": "name", "in": "query"},
                    {"type": "string", "description": "Partition identifier, decimal or 0x hex", "name": "id", "in": "query"},
                    {"description": "Raw PIT bytes", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.EntryResult"}},
                    "400": {"description": "Exactly one of name or id is required", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "No flashable partition matches", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Bad file identifier or truncated data", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/pit/diff": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Compare the PIT files uploaded as form files a and b",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["pit"],
                "summary": "Diff two PITs",
                "parameters": [
                    {"type": "file", "description": "First PIT", "name": "a", "in": "formData", "required": true},
                    {"type": "file", "description": "Second PIT", "name": "b", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.DiffResult"}},
                    "400": {"description": "Missing form file", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "413": {"description": "Body too large", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "422": {"description": "Bad file identifier or truncated data", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/archive": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "List snapshots, oldest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/archive.Snapshot"}}}
                }
            },
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "description": "Validate the raw PIT in the body and store it as a new snapshot",
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Archive a PIT",
                "parameters": [
                    {"description": "Raw PIT bytes", "name": "body", "in": "body", "required": true, "schema": {"type": "string", "format": "binary"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.SnapshotCreated"}},
                    "422": {"description": "Bad file identifier or truncated data", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/archive/{id}": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Get a snapshot as JSON",
                "parameters": [
                    {"type": "string", "description": "Snapshot KSUID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Invalid snapshot id", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Snapshot not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Delete a snapshot",
                "parameters": [
                    {"type": "string", "description": "Snapshot KSUID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Snapshot not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/archive/{id}/raw": {
            "get": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "produces": ["application/octet-stream"],
                "tags": ["archive"],
                "summary": "Download the packed snapshot",
                "parameters": [
                    {"type": "string", "description": "Snapshot KSUID", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "description": "Pad to a multiple of 4096 bytes", "name": "padded", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Packed PIT", "schema": {"type": "string", "format": "binary"}},
                    "404": {"description": "Snapshot not found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"}
            }
        },
        "api.EntryResult": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "entry": {"type": "object"}
            }
        },
        "api.DiffResult": {
            "type": "object",
            "properties": {
                "matches": {"type": "boolean"},
                "differences": {"type": "array", "items": {"$ref": "#/definitions/pit.Difference"}}
            }
        },
        "api.SnapshotCreated": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "entries": {"type": "integer"}
            }
        },
        "archive.Snapshot": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "created": {"type": "string", "format": "date-time"},
                "entries": {"type": "integer"},
                "size": {"type": "integer"}
            }
        },
        "pit.Difference": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"},
                "field": {"type": "string"},
                "a": {"type": "string"},
                "b": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "pitkit REST API",
	Description:      "Inspect, search, diff and archive PIT (Partition Information Table) files.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
