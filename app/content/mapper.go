package content

import (
	"sort"
	"strings"
	"time"

	"folio/app/models"
)

// ExcerptPlaceholder is shown for posts without an excerpt.
const ExcerptPlaceholder = "No excerpt available."

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// MapToPost converts a validated entry into a post. It performs no I/O and
// returns equal posts for equal entries.
func MapToPost(entry *models.Entry) models.Post {
	title, _ := entry.StringField("title")
	slug, _ := entry.StringField("slug")

	excerpt, ok := entry.StringField("excerpt")
	if !ok || strings.TrimSpace(excerpt) == "" {
		excerpt = ExcerptPlaceholder
	}

	featured, _ := entry.BoolField("featured")

	tags := []string{}
	if tag, ok := entry.FirstStringField("tags"); ok {
		tags = append(tags, tag)
	}

	var content models.Content
	if doc, ok := entry.DocumentField("content"); ok {
		content = models.DocumentContent(doc)
	}

	return models.Post{
		Slug:      slug,
		Title:     title,
		Excerpt:   excerpt,
		Content:   content,
		Date:      postDate(entry),
		Published: true,
		Featured:  featured,
		Tags:      tags,
		Source:    models.SourceCMS,
		EntryID:   entry.Sys.ID,
	}
}

// MapEntries validates and maps entries, dropping the invalid ones.
// The input order is preserved.
func MapEntries(entries []models.Entry, skip func(entry *models.Entry, err error)) []models.Post {
	posts := make([]models.Post, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		if err := Validate(entry); err != nil {
			if skip != nil {
				skip(entry, err)
			}
			continue
		}
		posts = append(posts, MapToPost(entry))
	}
	return posts
}

// postDate returns the calendar date of the publishedDate field, falling back
// to the creation date. The date is kept as written, without zone conversion.
func postDate(entry *models.Entry) time.Time {
	if raw, ok := entry.StringField("publishedDate"); ok {
		if d, ok := ParseDate(raw); ok {
			return d
		}
	}
	return TruncateDay(entry.Sys.CreatedAt)
}

// ParseDate parses a date or timestamp and truncates it to its calendar day.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDay(t), true
		}
	}
	return time.Time{}, false
}

// TruncateDay returns midnight UTC of t's calendar date in t's own location.
func TruncateDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortByDate orders posts by date, newest first. Posts with equal dates keep
// their relative order.
func SortByDate(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}
