package embedded

import (
	"io/fs"
	"strings"
	"testing"
)

func TestDocsIndexEmbedded(t *testing.T) {
	data, err := fs.ReadFile(FS, DocsIndex)
	if err != nil {
		t.Fatalf("docs page not embedded: %v", err)
	}
	if !strings.Contains(string(data), "SwaggerUIBundle") {
		t.Error("docs page does not load Swagger UI")
	}
	if !strings.Contains(string(data), "{{ .SpecURL }}") {
		t.Error("docs page is missing the OpenAPI URL placeholder")
	}
}
