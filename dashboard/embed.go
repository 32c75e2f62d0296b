// Package dashboard embeds the results page template.
//
// The template is compiled into the binary so the server runs without
// external files. It receives the page title, the formatted last-updated
// time, the source URL and the current entries.
package dashboard

import "embed"

// Assets holds the page template:
//
//	assets/
//	  index.html.tmpl    - results page with inline CSS
//
//go:embed assets/*
var Assets embed.FS
