package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the task API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>taskhub-api - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the task and user routes. All routes
// expect an Authorization: Bearer <token> header.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "taskhub-api", "version": "v0.1.0" },
  "paths": {
    "/api/tasks": {
      "get": { "summary": "List tasks (own tasks; all tasks for admins)", "responses": { "200": { "description": "task list" }, "401": { "description": "authentication failed" } } },
      "post": { "summary": "Create a task", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"},"description":{"type":"string"}}}}}}, "responses": { "201": { "description": "task created" }, "400": { "description": "title missing" } } }
    },
    "/api/tasks/{id}": {
      "put": { "summary": "Update a task (owner or admin)", "responses": { "200": { "description": "updated task" }, "403": { "description": "access denied" }, "404": { "description": "task not found" } } },
      "delete": { "summary": "Delete a task (admin only)", "responses": { "200": { "description": "deleted" }, "403": { "description": "admin access required" }, "404": { "description": "task not found" } } }
    },
    "/api/users/profile": {
      "get": { "summary": "Current user's directory record", "responses": { "200": { "description": "user record" }, "401": { "description": "authentication failed" } } }
    },
    "/api/users/{id}/role": {
      "put": { "summary": "Change a user's stored role (admin only)", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"role":{"type":"string","enum":["user","admin"]}}}}}}, "responses": { "200": { "description": "updated user" }, "400": { "description": "invalid role" }, "403": { "description": "admin access required" } } }
    }
  }
}`
