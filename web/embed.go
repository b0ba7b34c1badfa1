// Package web embeds the chat widget page served at the root path.
package web

import "embed"

// Assets holds the static widget files.
//
//go:embed widget.html
var Assets embed.FS
