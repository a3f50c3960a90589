// Package web bundles the embedded HTML templates and static assets
// served by the application.
package web

import "embed"

//go:embed templates/*.tmpl
var Templates embed.FS

//go:embed static
var Static embed.FS
