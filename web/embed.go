// Package web holds the embedded server-rendered templates.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
