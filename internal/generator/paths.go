package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a site route to its on-disk file. Routes already carry
// their locale prefix, so "/es/null-safety/" becomes "es/null-safety/index.html".
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}
