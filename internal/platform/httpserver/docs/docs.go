// Package docs registers the OpenAPI document served at /swagger/doc.json.
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
        "/v1/identities": {
            "post": {
                "tags": ["identity-directory"],
                "summary": "Register the caller's identity",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/identity.RegisterRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.ProfileResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/v1/identities/{identity}": {
            "get": {
                "tags": ["identity-directory"],
                "summary": "Get an identity profile",
                "parameters": [
                    {"type": "string", "name": "identity", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/identity.ProfileResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/v1/campaigns": {
            "get": {
                "tags": ["campaign-registry"],
                "summary": "List campaigns in global creation order",
                "parameters": [
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/campaign.ListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["campaign-registry"],
                "summary": "Create a campaign",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/campaign.WriteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/campaign.CreateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/v1/owners/{owner}/campaigns": {
            "get": {
                "tags": ["campaign-registry"],
                "summary": "List one owner's campaigns in creation order",
                "parameters": [
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/campaign.ListResponse"}}
                }
            }
        },
        "/v1/owners/{owner}/campaigns/{local_id}": {
            "get": {
                "tags": ["campaign-registry"],
                "summary": "Get a campaign",
                "parameters": [
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "integer", "name": "local_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/campaign.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "patch": {
                "tags": ["campaign-registry"],
                "summary": "Update a campaign",
                "description": "Empty name or description and zero target_fund keep the stored values. deadline is always written.",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "integer", "name": "local_id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/campaign.WriteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/campaign.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["campaign-registry"],
                "summary": "Delete a campaign",
                "parameters": [
                    {"type": "string", "name": "X-User-Id", "in": "header", "required": true},
                    {"type": "string", "name": "owner", "in": "path", "required": true},
                    {"type": "integer", "name": "local_id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "identity.RegisterRequest": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string"},
                "contact": {"type": "string"}
            }
        },
        "identity.Profile": {
            "type": "object",
            "properties": {
                "identity": {"type": "string"},
                "display_name": {"type": "string"},
                "contact": {"type": "string"},
                "registered": {"type": "boolean"},
                "registered_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "identity.ProfileResponse": {
            "type": "object",
            "properties": {
                "profile": {"$ref": "#/definitions/identity.Profile"}
            }
        },
        "campaign.WriteRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "target_fund": {"type": "integer"},
                "deadline": {"type": "integer"}
            }
        },
        "campaign.Campaign": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "local_id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "target_fund": {"type": "integer"},
                "current_fund": {"type": "integer"},
                "deadline": {"type": "integer"},
                "active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "campaign.Response": {
            "type": "object",
            "properties": {
                "campaign": {"$ref": "#/definitions/campaign.Campaign"}
            }
        },
        "campaign.CreateResponse": {
            "type": "object",
            "properties": {
                "local_id": {"type": "integer"},
                "campaign": {"$ref": "#/definitions/campaign.Campaign"}
            }
        },
        "campaign.ListResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/campaign.Campaign"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "page_size": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Crowdfund Campaign Registry API",
	Description:      "Identity registration and owner-scoped campaign records with per-owner and global pagination.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
