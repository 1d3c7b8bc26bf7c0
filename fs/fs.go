package appfs

import "embed"

// FS holds assets shipped inside the binary.
//
//go:embed migrations
var FS embed.FS
