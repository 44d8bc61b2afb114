package casestudies

import (
	"strings"
	"unicode/utf8"

	"capella-backend/internal/utils"
)

const minTitleLength = 3

// Fields carries the raw input of a case study. An empty Slug is derived
// from Title.
type Fields struct {
	ID           *int64
	Title        string
	Client       string
	Problem      string
	Solution     string
	Results      string
	Technologies []string
	Slug         string
}

// CaseStudy is a validated portfolio entry. The zero value is not usable;
// build one with NewCaseStudy or FromMap.
type CaseStudy struct {
	id           *int64
	title        string
	client       string
	problem      string
	solution     string
	results      string
	technologies []string
	slug         string
}

func NewCaseStudy(f Fields) (CaseStudy, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return CaseStudy{}, &InvalidEntityError{Reason: "title must not be empty"}
	}
	if utf8.RuneCountInString(title) < minTitleLength {
		return CaseStudy{}, &InvalidEntityError{Reason: "title must be at least 3 characters"}
	}
	client := strings.TrimSpace(f.Client)
	if client == "" {
		return CaseStudy{}, &InvalidEntityError{Reason: "client must not be empty"}
	}

	slug := strings.TrimSpace(f.Slug)
	if slug == "" {
		slug = title
	}

	var id *int64
	if f.ID != nil {
		v := *f.ID
		id = &v
	}

	return CaseStudy{
		id:           id,
		title:        title,
		client:       client,
		problem:      f.Problem,
		solution:     f.Solution,
		results:      f.Results,
		technologies: copyStrings(f.Technologies),
		slug:         utils.Slugify(slug),
	}, nil
}

func (c CaseStudy) ID() (int64, bool) {
	if c.id == nil {
		return 0, false
	}
	return *c.id, true
}

func (c CaseStudy) Title() string    { return c.title }
func (c CaseStudy) Client() string   { return c.client }
func (c CaseStudy) Problem() string  { return c.problem }
func (c CaseStudy) Solution() string { return c.solution }
func (c CaseStudy) Results() string  { return c.results }
func (c CaseStudy) Slug() string     { return c.slug }

func (c CaseStudy) Technologies() []string {
	return copyStrings(c.technologies)
}

// WithID returns a copy bound to a persisted identifier.
func (c CaseStudy) WithID(id int64) CaseStudy {
	c.id = &id
	c.technologies = copyStrings(c.technologies)
	return c
}

// ToMap returns the fixed-key representation of the case study. "id" is nil
// for entities that were never saved.
func (c CaseStudy) ToMap() map[string]interface{} {
	var id interface{}
	if c.id != nil {
		id = *c.id
	}
	return map[string]interface{}{
		"id":           id,
		"title":        c.title,
		"client":       c.client,
		"problem":      c.problem,
		"solution":     c.solution,
		"results":      c.results,
		"technologies": c.Technologies(),
		"slug":         c.slug,
	}
}

// FromMap rebuilds a case study from the output of ToMap (or a decoded JSON
// object) and validates it again.
func FromMap(data map[string]interface{}) (CaseStudy, error) {
	return NewCaseStudy(Fields{
		ID:           extractID(data["id"]),
		Title:        extractString(data["title"]),
		Client:       extractString(data["client"]),
		Problem:      extractString(data["problem"]),
		Solution:     extractString(data["solution"]),
		Results:      extractString(data["results"]),
		Technologies: extractStrings(data["technologies"]),
		Slug:         extractString(data["slug"]),
	})
}

func extractID(value interface{}) *int64 {
	var id int64
	switch v := value.(type) {
	case int:
		id = int64(v)
	case int32:
		id = int64(v)
	case int64:
		id = v
	case float64:
		id = int64(v)
	case *int64:
		if v == nil {
			return nil
		}
		id = *v
	default:
		return nil
	}
	return &id
}

func extractString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func extractStrings(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return copyStrings(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return ParseTechnologies(v)
	default:
		return []string{}
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
