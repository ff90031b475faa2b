package reciparse

import (
	"encoding/json"
	"fmt"
	"time"
)

// The wire shapes below define the persisted artifact. Durations are ISO 8601
// strings on the wire and time.Duration in memory.

type recipeJSON struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Author       string           `json:"author"`
	CreatedAt    string           `json:"created_at"`
	PrepTime     string           `json:"prep_time"`
	CookTime     string           `json:"cook_time"`
	TotalTime    string           `json:"total_time"`
	Servings     int              `json:"servings"`
	Difficulty   Difficulty       `json:"difficulty"`
	Ingredients  []ingredientJSON `json:"ingredients"`
	Instructions []stepJSON       `json:"instructions"`
	Tags         []string         `json:"tags"`
	Cuisine      string           `json:"cuisine_type,omitempty"`
	Category     Category         `json:"category,omitempty"`
	Source       *Provenance      `json:"source,omitempty"`
}

type ingredientJSON struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
	Notes    string  `json:"notes,omitempty"`
}

type stepJSON struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
	Time        string `json:"time,omitempty"`
	Note        string `json:"note,omitempty"`
}

type provenanceJSON struct {
	Type   string `json:"type"`
	URL    string `json:"url,omitempty"`
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	Issue  string `json:"issue,omitempty"`
	Page   int    `json:"page,omitempty"`
	ISBN   string `json:"isbn,omitempty"`
}

// Provenance type tags.
const (
	ProvenanceWeb      = "web"
	ProvenanceBook     = "book"
	ProvenanceMagazine = "magazine"
)

// MarshalJSON encodes the recipe in the persisted artifact format.
func (r Recipe) MarshalJSON() ([]byte, error) {
	out := recipeJSON{
		Title:       r.Title,
		Description: r.Description,
		Author:      r.Author,
		PrepTime:    FormatDuration(r.PrepTime),
		CookTime:    FormatDuration(r.CookTime),
		TotalTime:   FormatDuration(r.TotalTime),
		Servings:    r.Servings,
		Difficulty:  r.Difficulty,
		Tags:        r.Tags,
		Cuisine:     r.Cuisine,
		Category:    r.Category,
		Source:      r.Source,
	}
	if !r.CreatedAt.IsZero() {
		out.CreatedAt = r.CreatedAt.Format(time.RFC3339Nano)
	}
	if r.Ingredients != nil {
		out.Ingredients = make([]ingredientJSON, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			out.Ingredients[i] = ingredientJSON(ing)
		}
	}
	if r.Instructions != nil {
		out.Instructions = make([]stepJSON, len(r.Instructions))
		for i, s := range r.Instructions {
			out.Instructions[i] = stepJSON{Order: s.Order, Instruction: s.Instruction, Note: s.Note}
			if s.Time != 0 {
				out.Instructions[i].Time = FormatDuration(s.Time)
			}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a recipe from the persisted artifact format.
// It does not enforce domain invariants; call Validate for that.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var in recipeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	out := Recipe{
		Title:       in.Title,
		Description: in.Description,
		Author:      in.Author,
		Servings:    in.Servings,
		Difficulty:  in.Difficulty,
		Tags:        in.Tags,
		Cuisine:     in.Cuisine,
		Category:    in.Category,
		Source:      in.Source,
	}

	var err error
	if in.CreatedAt != "" {
		if out.CreatedAt, err = ParseTimestamp(in.CreatedAt); err != nil {
			return fmt.Errorf("created_at: %w", err)
		}
	}
	for _, f := range []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"prep_time", in.PrepTime, &out.PrepTime},
		{"cook_time", in.CookTime, &out.CookTime},
		{"total_time", in.TotalTime, &out.TotalTime},
	} {
		if f.src == "" {
			continue
		}
		if *f.dst, err = ParseDuration(f.src); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if in.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(in.Ingredients))
		for i, ing := range in.Ingredients {
			out.Ingredients[i] = Ingredient(ing)
		}
	}
	if in.Instructions != nil {
		out.Instructions = make([]Step, len(in.Instructions))
		for i, s := range in.Instructions {
			out.Instructions[i] = Step{Order: s.Order, Instruction: s.Instruction, Note: s.Note}
			if s.Time != "" {
				if out.Instructions[i].Time, err = ParseDuration(s.Time); err != nil {
					return fmt.Errorf("instructions[%d].time: %w", i, err)
				}
			}
		}
	}

	*r = out
	return nil
}

// MarshalJSON encodes the set variant with its type tag.
func (p Provenance) MarshalJSON() ([]byte, error) {
	var out provenanceJSON
	switch {
	case p.Web != nil:
		out = provenanceJSON{Type: ProvenanceWeb, URL: p.Web.URL}
	case p.Book != nil:
		out = provenanceJSON{Type: ProvenanceBook, Title: p.Book.Title, Author: p.Book.Author, Page: p.Book.Page, ISBN: p.Book.ISBN}
	case p.Magazine != nil:
		out = provenanceJSON{Type: ProvenanceMagazine, Title: p.Magazine.Title, Issue: p.Magazine.Issue, Page: p.Magazine.Page}
	default:
		return nil, fmt.Errorf("provenance has no variant set")
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged provenance.
func (p *Provenance) UnmarshalJSON(data []byte) error {
	var in provenanceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Type {
	case ProvenanceWeb:
		*p = Provenance{Web: &WebSource{URL: in.URL}}
	case ProvenanceBook:
		*p = Provenance{Book: &BookSource{Title: in.Title, Author: in.Author, Page: in.Page, ISBN: in.ISBN}}
	case ProvenanceMagazine:
		*p = Provenance{Magazine: &MagazineSource{Title: in.Title, Issue: in.Issue, Page: in.Page}}
	default:
		return fmt.Errorf("unknown provenance type %q", in.Type)
	}
	return nil
}

// ParseTimestamp parses an RFC 3339 timestamp, also accepting the naive
// ISO 8601 form without a zone offset (interpreted as UTC).
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
