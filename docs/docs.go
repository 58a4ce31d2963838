// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/api/auth/login": {
            "post": {"tags": ["auth"], "summary": "Log in and receive a bearer token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/tournaments": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Create a tournament", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/api/tournaments/{tournamentID}": {
            "get": {"tags": ["tournaments"], "summary": "Get the tournament aggregate", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["tournaments"], "summary": "Update tournament details", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/tournaments/{tournamentID}/standings": {
            "get": {"tags": ["tournaments"], "summary": "Get ranked standings", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/tournaments/{tournamentID}/schedule/generate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Generate a round-robin schedule", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/tournaments/{tournamentID}/schedule": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["schedule"], "summary": "Clear the schedule", "responses": {"200": {"description": "OK"}}}
        },
        "/api/tournaments/{tournamentID}/teams": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Create a team with its roster", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/api/tournaments/{tournamentID}/teams/{teamID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Update a team", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Delete a team", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/api/tournaments/{tournamentID}/teams/{teamID}/logo": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["teams"], "summary": "Upload a team logo", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/api/tournaments/{tournamentID}/teams/{teamID}/players": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["players"], "summary": "Add a player", "responses": {"201": {"description": "Created"}}}
        },
        "/api/tournaments/{tournamentID}/teams/{teamID}/players/{playerID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["players"], "summary": "Update a player", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["players"], "summary": "Remove a player", "responses": {"200": {"description": "OK"}}}
        },
        "/api/tournaments/{tournamentID}/notifications": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Send a notification", "responses": {"201": {"description": "Created"}}}
        },
        "/api/tournaments/{tournamentID}/notifications/{notificationID}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["notifications"], "summary": "Delete a notification", "responses": {"200": {"description": "OK"}}}
        },
        "/api/matches/{matchID}/score": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["matches"], "summary": "Submit or revise a match score", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/api/matches/{matchID}": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["matches"], "summary": "Update match date, time or venue", "responses": {"200": {"description": "OK"}}}
        },
        "/api/matches/{matchID}/status": {
            "patch": {"security": [{"BearerAuth": []}], "tags": ["matches"], "summary": "Change the status of an unplayed match", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}
        },
        "/ws/tournaments/{tournamentID}": {
            "get": {"tags": ["live"], "summary": "Subscribe to live tournament updates", "responses": {"101": {"description": "Switching Protocols"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tournament Manager API",
	Description:      "League tournaments with live standings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
