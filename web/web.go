// Package web embeds the browser chat page served by the API router.
package web

import "embed"

// Static holds static/index.html.
//
//go:embed static
var Static embed.FS
