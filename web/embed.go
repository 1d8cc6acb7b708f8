// Package web holds the HTML templates and static assets compiled into the
// binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static
var files embed.FS

const TemplatesDir = "templates"

// Templates returns the template tree rooted at the module's web directory.
func Templates() fs.FS {
	return files
}

// Static returns the static asset tree served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
