package cmd

import "io/fs"

// WebFS is set by main() before Execute() is called.
// It holds index.html, privacy.html, terms.html and the static/ directory.
var WebFS fs.FS
