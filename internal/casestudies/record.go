package casestudies

import (
	"strings"
	"time"
)

const (
	RecordType = "case_study"

	StatusPublish = "publish"
	StatusDraft   = "draft"
)

// Record is the stored shape of a case study. Typed attributes live in Meta.
type Record struct {
	ID            int64     `bson:"_id" json:"id"`
	Type          string    `bson:"type" json:"type"`
	Status        string    `bson:"status" json:"status"`
	Title         string    `bson:"title" json:"title"`
	Slug          string    `bson:"slug" json:"slug"`
	Content       string    `bson:"content" json:"content"`
	Excerpt       string    `bson:"excerpt" json:"excerpt"`
	Meta          Meta      `bson:"meta" json:"meta"`
	FeaturedImage *Image    `bson:"featured_image,omitempty" json:"featured_image,omitempty"`
	PublishedAt   time.Time `bson:"published_at" json:"published_at"`
	ModifiedAt    time.Time `bson:"modified_at" json:"modified_at"`
	SchemaVersion int       `bson:"schema_version" json:"schema_version"`
}

type Meta struct {
	Client        string `bson:"client" json:"client"`
	Problem       string `bson:"problem" json:"problem"`
	Solution      string `bson:"solution" json:"solution"`
	Results       string `bson:"results" json:"results"`
	Technologies  string `bson:"technologies" json:"technologies"`
	DateCompleted string `bson:"date_completed" json:"date_completed"`
}

type Image struct {
	URL   string     `bson:"url" json:"url" validate:"required,url"`
	Alt   string     `bson:"alt" json:"alt"`
	Sizes ImageSizes `bson:"sizes" json:"sizes"`
}

type ImageSizes struct {
	Thumbnail string `bson:"thumbnail" json:"thumbnail"`
	Medium    string `bson:"medium" json:"medium"`
	Large     string `bson:"large" json:"large"`
	Full      string `bson:"full" json:"full"`
}

// RecordQuery narrows Find and Count. Zero fields do not filter.
type RecordQuery struct {
	Status string
	Slug   string
	// Technology is a case-insensitive substring match on Meta.Technologies.
	Technology string
	Limit      int64
	Offset     int64
}

func (q RecordQuery) matches(r Record) bool {
	if r.Type != RecordType {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.Slug != "" && r.Slug != q.Slug {
		return false
	}
	if q.Technology != "" && !strings.Contains(strings.ToLower(r.Meta.Technologies), strings.ToLower(q.Technology)) {
		return false
	}
	return true
}

// ParseTechnologies splits a comma-separated technology string, trimming
// tokens and dropping empty ones. It never returns nil.
func ParseTechnologies(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func JoinTechnologies(techs []string) string {
	parts := make([]string, 0, len(techs))
	for _, t := range techs {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, ", ")
}
