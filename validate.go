package reciparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"
)

// Validator turns a backend tool call into a Recipe, enforcing the recipe
// contract. Every failure is a *SchemaViolation; values are never clamped
// or repaired.
type Validator struct {
	// Now supplies created_at when the backend leaves it out.
	Now func() time.Time
}

// NewValidator returns a Validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

// Validate decodes and checks the tool call's input.
func (v *Validator) Validate(call *ToolCall) (*Recipe, error) {
	if call == nil || len(bytes.TrimSpace(call.Input)) == 0 {
		return nil, &SchemaViolation{Field: "$", Reason: "tool input is empty"}
	}

	obj, err := decodeObject("", call.Input)
	if err != nil {
		return nil, err
	}

	r, err := obj.recipe()
	if err != nil {
		return nil, err
	}
	if r.CreatedAt.IsZero() {
		now := time.Now
		if v.Now != nil {
			now = v.Now
		}
		r.CreatedAt = now().UTC()
	}

	if err := validateRecipe(r); err != nil {
		return nil, err
	}
	return r, nil
}

// object is a decoded JSON object with the path it was found at.
type object struct {
	path   string
	fields map[string]any
}

func decodeObject(path string, raw json.RawMessage) (*object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &SchemaViolation{Field: fieldOrRoot(path), Reason: "malformed JSON: " + err.Error()}
	}
	return asObject(path, v)
}

func asObject(path string, v any) (*object, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaViolation{Field: fieldOrRoot(path), Reason: "must be an object"}
	}
	return &object{path: path, fields: m}, nil
}

func fieldOrRoot(path string) string {
	if path == "" {
		return "$"
	}
	return path
}

func (o *object) field(name string) string {
	if o.path == "" {
		return name
	}
	return o.path + "." + name
}

// get returns the value of name; null counts as absent.
func (o *object) get(name string) (any, bool) {
	v, ok := o.fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (o *object) missing(name string) error {
	return &SchemaViolation{Field: o.field(name), Reason: "field required"}
}

func (o *object) str(name string, required bool) (string, error) {
	v, ok := o.get(name)
	if !ok {
		if required {
			return "", o.missing(name)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaViolation{Field: o.field(name), Reason: "must be a string"}
	}
	return s, nil
}

func (o *object) number(name string) (float64, error) {
	v, ok := o.get(name)
	if !ok {
		return 0, o.missing(name)
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, &SchemaViolation{Field: o.field(name), Reason: "must be a number"}
	}
	f, err := n.Float64()
	if err != nil {
		return 0, &SchemaViolation{Field: o.field(name), Reason: "must be a number"}
	}
	return f, nil
}

func (o *object) integer(name string, required bool) (int, error) {
	if _, ok := o.get(name); !ok && !required {
		return 0, nil
	}
	f, err := o.number(name)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, &SchemaViolation{Field: o.field(name), Reason: "must be an integer"}
	}
	return int(f), nil
}

func (o *object) array(name string, required bool) ([]any, error) {
	v, ok := o.get(name)
	if !ok {
		if required {
			return nil, o.missing(name)
		}
		return nil, nil
	}
	a, ok := v.([]any)
	if !ok {
		return nil, &SchemaViolation{Field: o.field(name), Reason: "must be an array"}
	}
	return a, nil
}

// duration accepts an ISO 8601 string (or a Go duration string), a number
// of seconds, or a {days, hours, minutes, seconds} decomposition.
func (o *object) duration(name string, required bool) (time.Duration, error) {
	v, ok := o.get(name)
	if !ok {
		if required {
			return 0, o.missing(name)
		}
		return 0, nil
	}

	field := o.field(name)
	var d time.Duration
	switch x := v.(type) {
	case string:
		var err error
		if d, err = ParseDuration(x); err != nil {
			if d, err = time.ParseDuration(x); err != nil {
				return 0, &SchemaViolation{Field: field, Reason: fmt.Sprintf("invalid duration %q", x)}
			}
		}
	case json.Number:
		secs, err := x.Float64()
		if err != nil {
			return 0, &SchemaViolation{Field: field, Reason: "invalid duration"}
		}
		if math.Abs(secs) >= maxDurationSeconds {
			return 0, &SchemaViolation{Field: field, Reason: "duration out of range"}
		}
		d = time.Duration(math.Round(secs * float64(time.Second)))
	case map[string]any:
		parts := &object{path: field, fields: x}
		if len(x) == 0 {
			return 0, &SchemaViolation{Field: field, Reason: "duration object is empty"}
		}
		for key := range x {
			if !slices.Contains([]string{"days", "hours", "minutes", "seconds"}, key) {
				return 0, &SchemaViolation{Field: parts.field(key), Reason: "unknown duration component"}
			}
		}
		var total float64
		for _, c := range []struct {
			key  string
			unit time.Duration
		}{{"days", 24 * time.Hour}, {"hours", time.Hour}, {"minutes", time.Minute}, {"seconds", time.Second}} {
			if _, ok := parts.get(c.key); !ok {
				continue
			}
			n, err := parts.number(c.key)
			if err != nil {
				return 0, err
			}
			if n < 0 {
				return 0, &SchemaViolation{Field: parts.field(c.key), Reason: "must not be negative"}
			}
			if total += n * c.unit.Seconds(); total >= maxDurationSeconds {
				return 0, &SchemaViolation{Field: parts.field(c.key), Reason: "duration out of range"}
			}
			d += time.Duration(math.Round(n * float64(c.unit)))
		}
	default:
		return 0, &SchemaViolation{Field: field, Reason: "must be an ISO 8601 duration"}
	}
	return d, nil
}

func (o *object) recipe() (*Recipe, error) {
	r := &Recipe{}
	var err error

	if r.Title, err = o.str("title", true); err != nil {
		return nil, err
	}
	if r.Description, err = o.str("description", true); err != nil {
		return nil, err
	}
	if r.Author, err = o.str("author", true); err != nil {
		return nil, err
	}

	created, err := o.str("created_at", false)
	if err != nil {
		return nil, err
	}
	if created != "" {
		if r.CreatedAt, err = ParseTimestamp(created); err != nil {
			return nil, &SchemaViolation{Field: "created_at", Reason: err.Error()}
		}
	}

	if r.PrepTime, err = o.duration("prep_time", true); err != nil {
		return nil, err
	}
	if r.CookTime, err = o.duration("cook_time", true); err != nil {
		return nil, err
	}
	if r.TotalTime, err = o.duration("total_time", true); err != nil {
		return nil, err
	}
	if r.Servings, err = o.integer("servings", true); err != nil {
		return nil, err
	}

	difficulty, err := o.str("difficulty", true)
	if err != nil {
		return nil, err
	}
	r.Difficulty = Difficulty(difficulty)

	ingredients, err := o.array("ingredients", true)
	if err != nil {
		return nil, err
	}
	r.Ingredients = make([]Ingredient, 0, len(ingredients))
	for i, v := range ingredients {
		item, err := asObject(fmt.Sprintf("ingredients[%d]", i), v)
		if err != nil {
			return nil, err
		}
		ing, err := item.ingredient()
		if err != nil {
			return nil, err
		}
		r.Ingredients = append(r.Ingredients, ing)
	}

	steps, err := o.array("instructions", true)
	if err != nil {
		return nil, err
	}
	r.Instructions = make([]Step, 0, len(steps))
	for i, v := range steps {
		item, err := asObject(fmt.Sprintf("instructions[%d]", i), v)
		if err != nil {
			return nil, err
		}
		step, err := item.step()
		if err != nil {
			return nil, err
		}
		r.Instructions = append(r.Instructions, step)
	}

	tags, err := o.array("tags", false)
	if err != nil {
		return nil, err
	}
	r.Tags = make([]string, 0, len(tags))
	for i, v := range tags {
		tag, ok := v.(string)
		if !ok {
			return nil, &SchemaViolation{Field: fmt.Sprintf("tags[%d]", i), Reason: "must be a string"}
		}
		if !slices.Contains(r.Tags, tag) {
			r.Tags = append(r.Tags, tag)
		}
	}

	if r.Cuisine, err = o.str("cuisine_type", false); err != nil {
		return nil, err
	}
	category, err := o.str("category", false)
	if err != nil {
		return nil, err
	}
	r.Category = Category(category)

	if v, ok := o.get("source"); ok {
		src, err := asObject("source", v)
		if err != nil {
			return nil, err
		}
		if r.Source, err = src.provenance(); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (o *object) ingredient() (Ingredient, error) {
	var ing Ingredient
	var err error
	if ing.Name, err = o.str("name", true); err != nil {
		return ing, err
	}
	if ing.Quantity, err = o.number("quantity"); err != nil {
		return ing, err
	}
	unit, err := o.str("unit", true)
	if err != nil {
		return ing, err
	}
	ing.Unit = Unit(unit)
	if ing.Notes, err = o.str("notes", false); err != nil {
		return ing, err
	}
	return ing, nil
}

func (o *object) step() (Step, error) {
	var s Step
	var err error
	if s.Order, err = o.integer("order", true); err != nil {
		return s, err
	}
	if s.Instruction, err = o.str("instruction", true); err != nil {
		return s, err
	}
	if s.Time, err = o.duration("time", false); err != nil {
		return s, err
	}
	if s.Note, err = o.str("note", false); err != nil {
		return s, err
	}
	return s, nil
}

// provenanceFields lists the keys each provenance variant may carry.
var provenanceFields = map[string][]string{
	ProvenanceWeb:      {"type", "url"},
	ProvenanceBook:     {"type", "title", "author", "page", "isbn"},
	ProvenanceMagazine: {"type", "title", "issue", "page"},
}

func (o *object) provenance() (*Provenance, error) {
	tag, err := o.str("type", true)
	if err != nil {
		return nil, err
	}
	allowed, ok := provenanceFields[tag]
	if !ok {
		return nil, &SchemaViolation{Field: o.field("type"), Reason: fmt.Sprintf("unknown source type %q", tag)}
	}

	keys := make([]string, 0, len(o.fields))
	for key := range o.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, set := o.get(key); set && !slices.Contains(allowed, key) {
			return nil, &SchemaViolation{Field: o.field(key), Reason: fmt.Sprintf("not allowed for %s source", tag)}
		}
	}

	switch tag {
	case ProvenanceWeb:
		u, err := o.str("url", true)
		if err != nil {
			return nil, err
		}
		return &Provenance{Web: &WebSource{URL: u}}, nil
	case ProvenanceBook:
		b := &BookSource{}
		if b.Title, err = o.str("title", true); err != nil {
			return nil, err
		}
		if b.Author, err = o.str("author", true); err != nil {
			return nil, err
		}
		if b.Page, err = o.integer("page", true); err != nil {
			return nil, err
		}
		if b.ISBN, err = o.str("isbn", false); err != nil {
			return nil, err
		}
		return &Provenance{Book: b}, nil
	default:
		m := &MagazineSource{}
		if m.Title, err = o.str("title", true); err != nil {
			return nil, err
		}
		if m.Issue, err = o.str("issue", true); err != nil {
			return nil, err
		}
		if m.Page, err = o.integer("page", true); err != nil {
			return nil, err
		}
		return &Provenance{Magazine: m}, nil
	}
}

// validateRecipe checks value invariants on an already typed recipe.
func validateRecipe(r *Recipe) error {
	if strings.TrimSpace(r.Title) == "" {
		return &SchemaViolation{Field: "title", Reason: "must not be blank"}
	}
	for _, d := range []struct {
		field string
		value time.Duration
	}{{"prep_time", r.PrepTime}, {"cook_time", r.CookTime}, {"total_time", r.TotalTime}} {
		if d.value < 0 {
			return &SchemaViolation{Field: d.field, Reason: "must not be negative"}
		}
	}
	if r.Servings <= 0 {
		return &SchemaViolation{Field: "servings", Reason: "must be greater than 0"}
	}
	if !slices.Contains(Difficulties(), r.Difficulty) {
		return &SchemaViolation{Field: "difficulty", Reason: fmt.Sprintf("unknown value %q", r.Difficulty)}
	}

	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return &SchemaViolation{Field: fmt.Sprintf("ingredients[%d].name", i), Reason: "must not be blank"}
		}
		if !(ing.Quantity > 0) {
			return &SchemaViolation{Field: fmt.Sprintf("ingredients[%d].quantity", i), Reason: "must be greater than 0"}
		}
		if !slices.Contains(Units(), ing.Unit) {
			return &SchemaViolation{Field: fmt.Sprintf("ingredients[%d].unit", i), Reason: fmt.Sprintf("unknown value %q", ing.Unit)}
		}
	}

	for i, s := range r.Instructions {
		if strings.TrimSpace(s.Instruction) == "" {
			return &SchemaViolation{Field: fmt.Sprintf("instructions[%d].instruction", i), Reason: "must not be blank"}
		}
		if s.Time < 0 {
			return &SchemaViolation{Field: fmt.Sprintf("instructions[%d].time", i), Reason: "must not be negative"}
		}
	}

	if r.Category != "" && !slices.Contains(Categories(), r.Category) {
		return &SchemaViolation{Field: "category", Reason: fmt.Sprintf("unknown value %q", r.Category)}
	}

	if r.Source != nil {
		return validateProvenance(r.Source)
	}
	return nil
}

func validateProvenance(p *Provenance) error {
	set := 0
	for _, ok := range []bool{p.Web != nil, p.Book != nil, p.Magazine != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return &SchemaViolation{Field: "source", Reason: "exactly one source variant must be set"}
	}

	switch {
	case p.Web != nil:
		u, err := url.Parse(p.Web.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &SchemaViolation{Field: "source.url", Reason: fmt.Sprintf("invalid URL %q", p.Web.URL)}
		}
	case p.Book != nil:
		if p.Book.Page <= 0 {
			return &SchemaViolation{Field: "source.page", Reason: "must be greater than 0"}
		}
	case p.Magazine != nil:
		if p.Magazine.Page <= 0 {
			return &SchemaViolation{Field: "source.page", Reason: "must be greater than 0"}
		}
	}
	return nil
}
