// Package embedded holds static assets compiled into the phobost binary.
package embedded

import (
	"embed"
)

// FS embeds the interactive API documentation page.
//
//go:embed docs/*
var FS embed.FS

// DocsIndex is the path of the documentation page inside FS.
const DocsIndex = "docs/index.html"
