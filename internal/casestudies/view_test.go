package casestudies

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFormatter() Formatter {
	return Formatter{SiteURL: "https://informaticocapella.com/", PermalinkBase: "portafolio", Location: time.UTC}
}

func TestFormatFullRecord(t *testing.T) {
	published := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	rec := Record{
		ID:      9,
		Type:    RecordType,
		Status:  StatusPublish,
		Title:   "Serverless API",
		Slug:    "serverless-api",
		Content: "<p>Body text</p>",
		Excerpt: "Short summary",
		Meta: Meta{
			Client:        "Acme",
			Problem:       "Slow deploys",
			Solution:      "Lambda + API Gateway",
			Results:       "Deploys in minutes",
			Technologies:  "AWS, Lambda, ",
			DateCompleted: "2024-02-01",
		},
		FeaturedImage: &Image{
			URL: "https://cdn.example/full.jpg",
			Alt: "Architecture diagram",
			Sizes: ImageSizes{
				Thumbnail: "https://cdn.example/thumb.jpg",
				Medium:    "https://cdn.example/medium.jpg",
				Large:     "https://cdn.example/large.jpg",
			},
		},
		PublishedAt: published,
		ModifiedAt:  published.Add(48 * time.Hour),
	}

	v := testFormatter().Format(rec)
	assert.Equal(t, int64(9), v.ID)
	assert.Equal(t, "Short summary", v.Excerpt)
	assert.Equal(t, "Slow deploys", v.Problem)
	assert.Equal(t, "Lambda + API Gateway", v.Solution)
	assert.Equal(t, []string{"AWS", "Lambda"}, v.Technologies)
	assert.Equal(t, "2024-02-01", v.DateCompleted)
	assert.Equal(t, "2024-03-05 10:30:00", v.DatePublished)
	assert.Equal(t, "2024-03-07 10:30:00", v.DateModified)
	assert.Equal(t, "https://informaticocapella.com/portafolio/serverless-api/", v.URL)
	assert.Empty(t, v.Status)

	require.NotNil(t, v.FeaturedImage)
	assert.Equal(t, "https://cdn.example/full.jpg", v.FeaturedImage.URL)
	assert.Equal(t, "Architecture diagram", v.FeaturedImage.Alt)
	assert.Equal(t, map[string]string{
		"thumbnail": "https://cdn.example/thumb.jpg",
		"medium":    "https://cdn.example/medium.jpg",
		"large":     "https://cdn.example/large.jpg",
		"full":      "https://cdn.example/full.jpg",
	}, v.FeaturedImage.Sizes)
}

func TestFormatFallbacks(t *testing.T) {
	published := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	words := make([]string, 40)
	for i := range words {
		words[i] = "word"
	}
	rec := Record{
		ID:          1,
		Title:       "Legacy",
		Slug:        "legacy",
		Content:     strings.Join(words, " "),
		Meta:        Meta{Client: "Acme"},
		PublishedAt: published,
	}

	v := testFormatter().Format(rec)
	assert.Equal(t, strings.Join(words[:30], " ")+"…", v.Excerpt)
	assert.Equal(t, rec.Content, v.Problem)
	assert.Equal(t, "", v.Solution)
	assert.Equal(t, "2024-03-05 10:30:00", v.DateCompleted)
	assert.Equal(t, []string{}, v.Technologies)
	assert.Nil(t, v.FeaturedImage)
	assert.Equal(t, "", v.DateModified)
}

func TestFormatUsesLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	f := testFormatter()
	f.Location = loc

	v := f.Format(Record{Slug: "x", PublishedAt: time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)})
	assert.Equal(t, "2024-01-02 00:30:00", v.DatePublished)
}

func TestFormatAdminIncludesStatus(t *testing.T) {
	v := testFormatter().FormatAdmin(Record{Slug: "x", Status: StatusDraft})
	assert.Equal(t, StatusDraft, v.Status)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "stored", Excerpt("stored", "content here"))
	assert.Equal(t, "Hello world", Excerpt("  ", "<p>Hello</p>\n<strong>world</strong>"))
	assert.Equal(t, "one two…", TrimWords("one two three", 2))
	assert.Equal(t, "", TrimWords("", 30))
}

func TestPermalinkWithoutBase(t *testing.T) {
	f := Formatter{SiteURL: "https://example.com"}
	assert.Equal(t, "https://example.com/slug/", f.Permalink("slug"))
}
