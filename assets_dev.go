//go:build dev

package main

import (
	"io/fs"
	"os"
)

// getWebFS reads pages from ./web on every request so edits show up without a rebuild.
func getWebFS() (fs.FS, error) {
	return os.DirFS("web"), nil
}
