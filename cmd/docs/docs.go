// Package docs holds the Swagger description served by gin-swagger outside production.
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
        "/accounts": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "List accounts for the logged-in user", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["accounts"], "summary": "Create a new account", "responses": {"201": {"description": "Created"}}}
        },
        "/accounts/reconcile": {
            "post": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "Rebuild account balances from the ledger", "responses": {"200": {"description": "OK"}}}
        },
        "/accounts/{id}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["accounts"], "summary": "Get an account by ID", "parameters": [{"type": "string", "description": "Account ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/cron/recurring-incomes": {
            "post": {"security": [{"CronSecret": []}], "produces": ["application/json"], "tags": ["cron"], "summary": "Process due recurring incomes", "responses": {"200": {"description": "OK"}}}
        },
        "/cron/recurring-transactions": {
            "post": {"security": [{"CronSecret": []}], "produces": ["application/json"], "tags": ["cron"], "summary": "Process due recurring transactions", "responses": {"200": {"description": "OK"}}}
        },
        "/goals": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["goals"], "summary": "List savings goals", "responses": {"200": {"description": "OK"}}}
        },
        "/goals/{goalID}": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["goals"], "summary": "Get a savings goal", "parameters": [{"type": "string", "description": "Goal ID", "name": "goalID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/goals/{goalID}/contributions": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["goals"], "summary": "Contribute to a savings goal", "parameters": [{"type": "string", "description": "Goal ID", "name": "goalID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}}}
        },
        "/households": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["households"], "summary": "List the user's households", "responses": {"200": {"description": "OK"}}}
        },
        "/recurring-incomes": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["recurring"], "summary": "List recurring incomes", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["recurring"], "summary": "Create a recurring income", "responses": {"201": {"description": "Created"}}}
        },
        "/recurring-incomes/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Deactivate a recurring income", "parameters": [{"type": "string", "description": "Recurring income ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/recurring-transactions": {
            "get": {"security": [{"BearerAuth": []}], "produces": ["application/json"], "tags": ["recurring"], "summary": "List recurring transactions", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["recurring"], "summary": "Create a recurring transaction", "responses": {"201": {"description": "Created"}}}
        },
        "/recurring-transactions/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["recurring"], "summary": "Deactivate a recurring transaction", "parameters": [{"type": "string", "description": "Recurring transaction ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/transactions": {
            "post": {"security": [{"BearerAuth": []}], "consumes": ["application/json"], "produces": ["application/json"], "tags": ["transactions"], "summary": "Post a transaction", "responses": {"201": {"description": "Created"}}}
        },
        "/transactions/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Delete a transaction", "parameters": [{"type": "string", "description": "Transaction ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        },
        "CronSecret": {
            "description": "Type \"Bearer\" followed by a space and the cron secret.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Household Finance API",
	Description:      "Recurring postings, balance reconciliation and savings goals for personal and household finances.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
