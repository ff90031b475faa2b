package reciparse

import "strings"

// Slug derives a file name stem from a recipe title: lowercased, with
// spaces replaced by dashes. Path separators are replaced too so the slug
// always names a single file.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = strings.ReplaceAll(s, " ", "-")
	return strings.NewReplacer("/", "-", "\\", "-").Replace(s)
}
