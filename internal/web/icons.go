package web

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed icons/*.svg
var iconFS embed.FS

// itemIcon returns the bundled icon for a seeded catalog item.
func itemIcon(filename string) ([]byte, bool) {
	if !strings.HasSuffix(filename, ".svg") || strings.Contains(filename, "/") {
		return nil, false
	}
	data, err := fs.ReadFile(iconFS, "icons/"+filename)
	if err != nil {
		return nil, false
	}
	return data, true
}
