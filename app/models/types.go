package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validator returns the shared validator with the blog's custom rules registered.
func Validator() *validator.Validate {
	return validate
}

// Source identifies where a post was loaded from.
type Source string

const (
	SourceCMS      Source = "cms"
	SourceFallback Source = "fallback"
)

// Label is the human readable name shown on pages.
func (s Source) Label() string {
	if s == SourceCMS {
		return "Contentful"
	}
	return "Fallback"
}

// Post represents a blog post ready for presentation.
type Post struct {
	Slug      string    `json:"slug" validate:"required,slug,max=200"`
	Title     string    `json:"title" validate:"required,notblank,max=200"`
	Excerpt   string    `json:"excerpt"`
	Content   Content   `json:"content"`
	Date      time.Time `json:"date" validate:"required"`
	Published bool      `json:"published"`
	Featured  bool      `json:"featured"`
	Tags      []string  `json:"tags"`
	Source    Source    `json:"source" validate:"oneof=cms fallback"`
	EntryID   string    `json:"entryId,omitempty"`
}

// Content holds either trusted markup or a rich text document. Exactly one is set.
type Content struct {
	Markup   string    `json:"markup,omitempty"`
	Document *RichText `json:"document,omitempty"`
}

// PreviewSession is a server-side record of an enabled preview mode.
type PreviewSession struct {
	ID         string    `json:"id" validate:"required,uuid4"`
	RemoteAddr string    `json:"remote_addr"`
	CreatedAt  time.Time `json:"created_at" validate:"required"`
	ExpiresAt  time.Time `json:"expires_at" validate:"required,gtfield=CreatedAt"`
}

// ConnectivityCheck records one run of the CMS connectivity probe.
type ConnectivityCheck struct {
	ID        int       `json:"id"`
	CheckedAt time.Time `json:"checked_at"`
	Probes    []Probe   `json:"probes" validate:"dive"`
}

// Probe is the outcome of querying one CMS API during a check.
type Probe struct {
	Mode    string        `json:"mode" validate:"oneof=delivery preview"`
	OK      bool          `json:"ok"`
	Kind    string        `json:"kind,omitempty"`
	Error   string        `json:"error,omitempty"`
	Entries int           `json:"entries"`
	Latency time.Duration `json:"latency"`
}
