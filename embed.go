package hws

import "embed"

// EmbeddedAssets holds the default page markup and the static files served
// under /static/: the site stylesheet and script and the editor client.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
