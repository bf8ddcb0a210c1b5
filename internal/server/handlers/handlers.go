package handlers

import (
	"bytes"
	"html/template"

	"github.com/rs/zerolog"

	"github.com/agentstation/phobost/cmd/application"
	"github.com/agentstation/phobost/internal/embedded"
	"github.com/agentstation/phobost/internal/openapi"
	"github.com/agentstation/phobost/pkg/constants"
	"github.com/agentstation/phobost/pkg/errors"
	"github.com/agentstation/phobost/pkg/markdown"
)

// ConversionObserver receives the size of every completed conversion.
type ConversionObserver interface {
	ObserveConversion(inputBytes, outputBytes int)
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app      application.Application
	renderer *markdown.Renderer
	observer ConversionObserver
	logger   *zerolog.Logger

	specJSON []byte
	specYAML []byte
	docsPage []byte
}

// New creates a new Handlers instance. The API description and the
// documentation page are generated once here. observer may be nil.
func New(
	app application.Application,
	renderer *markdown.Renderer,
	observer ConversionObserver,
) (*Handlers, error) {
	doc := openapi.New(app.Version())

	specJSON, err := doc.JSON()
	if err != nil {
		return nil, errors.WrapConfig("openapi", "encoding JSON description", err)
	}
	specYAML, err := doc.YAML()
	if err != nil {
		return nil, errors.WrapConfig("openapi", "encoding YAML description", err)
	}
	page, err := renderDocsPage(doc.Info.Title)
	if err != nil {
		return nil, errors.WrapConfig("docs", "rendering documentation page", err)
	}

	return &Handlers{
		app:      app,
		renderer: renderer,
		observer: observer,
		logger:   app.Logger(),
		specJSON: specJSON,
		specYAML: specYAML,
		docsPage: page,
	}, nil
}

// renderDocsPage executes the embedded Swagger UI template.
func renderDocsPage(title string) ([]byte, error) {
	tmpl, err := template.ParseFS(embedded.FS, embedded.DocsIndex)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, struct {
		Title   string
		SpecURL string
	}{
		Title:   title,
		SpecURL: constants.PathOpenAPIJSON,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
