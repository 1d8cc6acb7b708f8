package seed

import (
	"embed"
	"io/fs"
)

//go:embed data/*.csv
var defaultCatalogFS embed.FS

// CatalogFS returns the embedded sample catalog used when no catalog directory
// is configured.
func CatalogFS() fs.FS {
	sub, err := fs.Sub(defaultCatalogFS, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
