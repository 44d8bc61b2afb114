package casestudies

import (
	"regexp"
	"strings"
	"time"
)

const (
	excerptWords    = 30
	excerptMore     = "…"
	timestampLayout = "2006-01-02 15:04:05"
)

// View is the JSON shape returned to API clients.
type View struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Status        string     `json:"status,omitempty"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	Client        string     `json:"client"`
	Problem       string     `json:"problem"`
	Solution      string     `json:"solution"`
	Results       string     `json:"results"`
	Technologies  []string   `json:"technologies"`
	DateCompleted string     `json:"date_completed"`
	FeaturedImage *ImageView `json:"featured_image"`
	URL           string     `json:"url"`
	DatePublished string     `json:"date_published"`
	DateModified  string     `json:"date_modified"`
}

type ImageView struct {
	URL   string            `json:"url"`
	Alt   string            `json:"alt"`
	Sizes map[string]string `json:"sizes"`
}

// Formatter turns stored records into views.
type Formatter struct {
	SiteURL       string
	PermalinkBase string
	Location      *time.Location
}

func (f Formatter) Format(rec Record) View {
	published := f.timestamp(rec.PublishedAt)
	dateCompleted := strings.TrimSpace(rec.Meta.DateCompleted)
	if dateCompleted == "" {
		dateCompleted = published
	}

	problem := rec.Meta.Problem
	if strings.TrimSpace(problem) == "" {
		problem = rec.Content
	}

	return View{
		ID:            rec.ID,
		Title:         rec.Title,
		Slug:          rec.Slug,
		Excerpt:       Excerpt(rec.Excerpt, rec.Content),
		Content:       rec.Content,
		Client:        rec.Meta.Client,
		Problem:       problem,
		Solution:      rec.Meta.Solution,
		Results:       rec.Meta.Results,
		Technologies:  ParseTechnologies(rec.Meta.Technologies),
		DateCompleted: dateCompleted,
		FeaturedImage: formatImage(rec.FeaturedImage),
		URL:           f.Permalink(rec.Slug),
		DatePublished: published,
		DateModified:  f.timestamp(rec.ModifiedAt),
	}
}

// FormatAdmin is Format plus the record status.
func (f Formatter) FormatAdmin(rec Record) View {
	v := f.Format(rec)
	v.Status = rec.Status
	return v
}

func (f Formatter) Permalink(slug string) string {
	base := strings.TrimRight(f.SiteURL, "/")
	if p := strings.Trim(f.PermalinkBase, "/"); p != "" {
		base += "/" + p
	}
	return base + "/" + slug + "/"
}

func (f Formatter) timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(timestampLayout)
}

func formatImage(img *Image) *ImageView {
	if img == nil || strings.TrimSpace(img.URL) == "" {
		return nil
	}
	sizes := map[string]string{
		"thumbnail": orDefault(img.Sizes.Thumbnail, img.URL),
		"medium":    orDefault(img.Sizes.Medium, img.URL),
		"large":     orDefault(img.Sizes.Large, img.URL),
		"full":      orDefault(img.Sizes.Full, img.URL),
	}
	return &ImageView{URL: sizes["full"], Alt: img.Alt, Sizes: sizes}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// Excerpt returns the stored excerpt, or the first 30 words of the
// tag-stripped content followed by an ellipsis when it was cut.
func Excerpt(stored, content string) string {
	if strings.TrimSpace(stored) != "" {
		return stored
	}
	return TrimWords(content, excerptWords)
}

func TrimWords(text string, n int) string {
	words := strings.Fields(htmlTags.ReplaceAllString(text, " "))
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + excerptMore
}
