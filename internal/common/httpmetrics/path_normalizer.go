package httpmetrics

import "strings"

// NormalizePath collapses resource ids so metric label cardinality stays
// bounded: /api/blogs/<id> becomes /api/blogs/{id}.
func NormalizePath(path string) string {
	const blogsPrefix = "/api/blogs/"

	if strings.HasPrefix(path, blogsPrefix) {
		rest := strings.TrimPrefix(path, blogsPrefix)
		if rest != "" && rest != "stats" {
			return blogsPrefix + "{id}"
		}
	}

	return path
}
