package web

import "embed"

// DistFS holds the built application shell served by the SPA router.
//
//go:embed all:dist
var DistFS embed.FS
