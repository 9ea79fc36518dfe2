// Package appfs embeds the static assets the bootstrap needs at runtime:
// goose SQL migrations and the seed snapshot files.
package appfs

import (
	"embed"
	"io/fs"
	"log"
)

//go:embed migrations seeds
var FS embed.FS

// Seeds is the snapshot files FS, rooted at the files themselves.
func Seeds() fs.FS {
	sub, err := fs.Sub(FS, "seeds")
	if err != nil {
		log.Fatalf("appfs: %v", err)
	}
	return sub
}
