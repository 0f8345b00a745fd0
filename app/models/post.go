package models

import (
	"errors"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.Date.IsZero() {
		return errors.New("date cannot be zero")
	}

	if p.Content.Markup == "" && !p.Content.IsDocument() {
		return errors.New("content is required")
	}

	return nil
}

// FormattedDate renders the post date the way pages display it.
func (p *Post) FormattedDate() string {
	return p.Date.Format("January 2, 2006")
}

// DateString returns the calendar date in ISO form.
func (p *Post) DateString() string {
	return p.Date.Format("2006-01-02")
}

// HasTags reports whether the post carries at least one tag.
func (p *Post) HasTags() bool {
	return len(p.Tags) > 0
}

// MarkupContent wraps a trusted markup string.
func MarkupContent(markup string) Content {
	return Content{Markup: markup}
}

// DocumentContent wraps a rich text document.
func DocumentContent(doc *RichText) Content {
	return Content{Document: doc}
}

// IsDocument reports whether the content is a rich text document.
func (c Content) IsDocument() bool {
	return c.Document.IsDocument()
}
