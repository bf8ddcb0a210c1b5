// Package openapi builds the OpenAPI 3.1 description of the phobost HTTP API.
// The document is assembled from Go values so it cannot drift from the route
// set, and is rendered once as JSON and YAML for the documentation routes.
package openapi

import (
	"encoding/json"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/phobost/pkg/constants"
)

// Version is the OpenAPI specification version of the generated document.
const Version = "3.1.0"

// ExampleMarkdown is the sample request body shown in the documentation.
const ExampleMarkdown = `# Example Heading

- *italics*
- **bold**
- ***bold italics***.

Break:
-----

+ Numbered
+ Lists

~~Strikethough~~
[example link](https://example.com/)

## And more...`

// Document is the root of an OpenAPI document.
type Document struct {
	OpenAPI string              `json:"openapi"`
	Info    Info                `json:"info"`
	Tags    []Tag               `json:"tags,omitempty"`
	Paths   map[string]PathItem `json:"paths"`
}

// Info describes the API.
type Info struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version"`
	License     *License `json:"license,omitempty"`
}

// License names the API license.
type License struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier,omitempty"`
}

// Tag groups operations.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PathItem holds the operations of a single path.
type PathItem struct {
	Get  *Operation `json:"get,omitempty"`
	Post *Operation `json:"post,omitempty"`
}

// Operation describes a single API operation.
type Operation struct {
	Tags        []string            `json:"tags,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	OperationID string              `json:"operationId"`
	RequestBody *RequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// RequestBody describes an operation's request body.
type RequestBody struct {
	Description string               `json:"description,omitempty"`
	Required    bool                 `json:"required"`
	Content     map[string]MediaType `json:"content"`
}

// Response describes a single response.
type Response struct {
	Description string               `json:"description"`
	Headers     map[string]Header    `json:"headers,omitempty"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// Header describes a response header.
type Header struct {
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema"`
}

// MediaType pairs a schema with an example.
type MediaType struct {
	Schema  *Schema `json:"schema"`
	Example any     `json:"example,omitempty"`
}

// Schema is the subset of JSON Schema used by the document.
type Schema struct {
	Type       string             `json:"type,omitempty"`
	Format     string             `json:"format,omitempty"`
	Enum       []string           `json:"enum,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// New builds the API description for the given service version.
func New(version string) *Document {
	if version == "" {
		version = "dev"
	}

	requestID := map[string]Header{
		"x-request-id": {
			Description: "Request identifier, echoed from the request or generated by the server",
			Schema:      &Schema{Type: "string"},
		},
	}

	return &Document{
		OpenAPI: Version,
		Info: Info{
			Title:       constants.ServiceName,
			Description: "Health probe and markdown to HTML conversion.",
			Version:     version,
			License:     &License{Name: "MIT", Identifier: "MIT"},
		},
		Tags: []Tag{
			{Name: "v1", Description: "Version 1 API"},
		},
		Paths: map[string]PathItem{
			constants.PathPrefixV1 + "/health": {
				Get: &Operation{
					Tags:        []string{"v1"},
					Summary:     "Get the current status of the API",
					OperationID: "health",
					Responses: map[string]Response{
						"200": {
							Description: "API Status Ok",
							Headers:     requestID,
							Content: map[string]MediaType{
								constants.ContentTypeJSON: {
									Schema:  &Schema{Type: "string", Enum: []string{"Ok"}},
									Example: "Ok",
								},
							},
						},
					},
				},
			},
			constants.PathPrefixV1 + "/md2html": {
				Post: &Operation{
					Tags:        []string{"v1"},
					Summary:     "Convert the given input markdown text to html",
					OperationID: "md2html",
					RequestBody: &RequestBody{
						Description: "Markdown to convert to HTML",
						Required:    true,
						Content: map[string]MediaType{
							constants.ContentTypeMarkdown: {
								Schema:  &Schema{Type: "string"},
								Example: ExampleMarkdown,
							},
						},
					},
					Responses: map[string]Response{
						"200": {
							Description: "Converted HTML",
							Headers:     requestID,
							Content: map[string]MediaType{
								"text/html": {Schema: &Schema{Type: "string"}},
							},
						},
						"408": errorResponse("Conversion exceeded the request time limit"),
					},
				},
			},
		},
	}
}

func errorResponse(description string) Response {
	return Response{
		Description: description,
		Content: map[string]MediaType{
			constants.ContentTypeJSON: {Schema: errorEnvelope()},
		},
	}
}

func errorEnvelope() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"data": {Type: "null"},
			"error": {
				Type: "object",
				Properties: map[string]*Schema{
					"code":    {Type: "string"},
					"message": {Type: "string"},
					"details": {Type: "string"},
				},
				Required: []string{"code", "message"},
			},
		},
		Required: []string{"data", "error"},
	}
}

// JSON renders the document as indented JSON.
func (d *Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// YAML renders the document as YAML.
func (d *Document) YAML() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return yaml.JSONToYAML(data)
}
