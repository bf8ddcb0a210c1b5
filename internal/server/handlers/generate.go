// Package handlers provides HTTP request handlers for the phobost API.
//
// Handlers are organized by route for maintainability:
//
//   - health.go: Liveness probe
//   - md2html.go: Markdown to HTML conversion
//   - openapi.go: OpenAPI 3.1 description and the Swagger UI page
//   - fallback.go: Root redirect, favicon and unknown routes
//
// All handlers follow a consistent pattern:
//
//  1. Validate method and input
//  2. Do the work through an injected dependency
//  3. Write the response through the response package
//
// Handlers hold no mutable state, so one instance serves all requests
// concurrently.
package handlers

//go:generate gomarkdoc --output README.md .
