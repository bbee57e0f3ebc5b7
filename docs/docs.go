// Package docs registers the OpenAPI description served under /swagger.
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
		"/auth/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Create an account",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/http.registerRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Exchange credentials for a bearer token",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/http.loginRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/http.tokenResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/session": {
			"get": {
				"tags": [
					"stats"
				],
				"summary": "Start a session: expire a stale streak, apply penalties, return everything",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/stats": {
			"get": {
				"tags": [
					"stats"
				],
				"summary": "Level, XP, streak and derived progress",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/tasks": {
			"get": {
				"tags": [
					"tasks"
				],
				"summary": "Active tasks (sorted) and completed ones",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"tags": [
					"tasks"
				],
				"summary": "Add a task",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/http.createTaskRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.Outcome"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/tasks/{id}": {
			"put": {
				"tags": [
					"tasks"
				],
				"summary": "Edit an active task",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "task id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/http.updateTaskRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.Outcome"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			},
			"delete": {
				"tags": [
					"tasks"
				],
				"summary": "Delete a task",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "task id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.Outcome"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/tasks/{id}/complete": {
			"post": {
				"tags": [
					"tasks"
				],
				"summary": "Complete a task and collect XP",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "task id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.Outcome"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/tasks/{id}/template": {
			"post": {
				"tags": [
					"templates"
				],
				"summary": "Save a task as a reusable template",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "task id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/templates": {
			"get": {
				"tags": [
					"templates"
				],
				"summary": "Saved templates, newest first",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/templates/{id}/use": {
			"post": {
				"tags": [
					"templates"
				],
				"summary": "Create a new undated task from a template",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "template id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/services.Outcome"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/templates/{id}": {
			"delete": {
				"tags": [
					"templates"
				],
				"summary": "Delete a template",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "template id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/feedback": {
			"post": {
				"tags": [
					"feedback"
				],
				"summary": "Send a rating and an optional comment",
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/http.feedbackRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		},
		"/coach/greeting": {
			"get": {
				"tags": [
					"coach"
				],
				"summary": "The coach's opening line for the current level",
				"produces": [
					"application/json"
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/coach/messages": {
			"post": {
				"tags": [
					"coach"
				],
				"summary": "Ask the coach; events: chunk, fallback, done",
				"produces": [
					"text/event-stream"
				],
				"parameters": [
					{
						"description": "payload",
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/http.coachMessageRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				],
				"responses": {
					"200": {
						"description": "event stream"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/http.errorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"http.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"http.registerRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"http.loginRequest": {
			"type": "object",
			"properties": {
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"http.tokenResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"expires_in": {
					"type": "integer"
				}
			}
		},
		"http.createTaskRequest": {
			"type": "object",
			"properties": {
				"text": {
					"type": "string"
				},
				"priority": {
					"type": "string",
					"enum": [
						"low",
						"medium",
						"high"
					]
				},
				"due_date": {
					"type": "string",
					"example": "2024-06-30"
				}
			}
		},
		"http.updateTaskRequest": {
			"type": "object",
			"properties": {
				"text": {
					"type": "string"
				},
				"priority": {
					"type": "string",
					"enum": [
						"low",
						"medium",
						"high"
					]
				},
				"due_date": {
					"type": "string"
				}
			}
		},
		"http.feedbackRequest": {
			"type": "object",
			"properties": {
				"rating": {
					"type": "integer",
					"minimum": 1,
					"maximum": 5
				},
				"comment": {
					"type": "string"
				}
			}
		},
		"http.coachMessageRequest": {
			"type": "object",
			"properties": {
				"message": {
					"type": "string"
				},
				"history": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"role": {
								"type": "string",
								"enum": [
									"user",
									"model"
								]
							},
							"text": {
								"type": "string"
							}
						}
					}
				}
			}
		},
		"services.Outcome": {
			"type": "object",
			"properties": {
				"task": {
					"type": "object"
				},
				"stats": {
					"type": "object"
				},
				"progress": {
					"type": "object"
				},
				"xp_gained": {
					"type": "integer"
				},
				"penalized": {
					"type": "integer"
				},
				"level_change": {
					"type": "string",
					"enum": [
						"",
						"up",
						"down"
					]
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Zen Producer API",
	Description:      "Gamified task tracking with levels, streaks, overdue penalties and a streaming coach.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
