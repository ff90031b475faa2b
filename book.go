package reciparse

import (
	"regexp"
	"strings"
)

// BookRecipe is one recipe cut out of a Markdown cookbook.
type BookRecipe struct {
	Title   string
	Content string
}

var (
	bookHeading  = regexp.MustCompile(`(?m)^[ \t]*##[ \t]+(.+?)[ \t]*$`)
	unsafeInName = regexp.MustCompile(`[^\p{L}\p{N}_\-. ]`)
)

// SplitBook splits a Markdown cookbook into recipes on level-two headings.
// Text before the first heading is dropped. Later recipes with a duplicate
// title replace earlier ones, keeping the position of the first.
func SplitBook(content string) []BookRecipe {
	locs := bookHeading.FindAllStringSubmatchIndex(content, -1)

	var recipes []BookRecipe
	index := make(map[string]int)
	for i, loc := range locs {
		title := strings.TrimSpace(content[loc[2]:loc[3]])
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(content[loc[1]:end])

		if j, ok := index[title]; ok {
			recipes[j].Content = body
			continue
		}
		index[title] = len(recipes)
		recipes = append(recipes, BookRecipe{Title: title, Content: body})
	}
	return recipes
}

// FileName returns a safe Markdown file name for the recipe.
func (b BookRecipe) FileName() string {
	return unsafeInName.ReplaceAllString(b.Title, "_") + ".md"
}

// Markdown renders the recipe as a standalone Markdown document.
func (b BookRecipe) Markdown() string {
	return "# " + b.Title + "\n\n" + b.Content
}
