package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Entry is a single content record as returned by the CMS. Fields are kept raw
// and decoded on demand so their shape is checked rather than trusted.
type Entry struct {
	Sys    Sys                        `json:"sys"`
	Fields map[string]json.RawMessage `json:"fields"`
}

// Sys is the system envelope of an entry.
type Sys struct {
	ID          string     `json:"id"`
	Type        string     `json:"type"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	ContentType Link       `json:"contentType"`
}

// Link references another CMS object by id.
type Link struct {
	Sys LinkSys `json:"sys"`
}

// LinkSys is the system envelope of a link.
type LinkSys struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	LinkType string `json:"linkType"`
}

// ContentTypeID returns the content type identifier of the entry.
func (e *Entry) ContentTypeID() string {
	return e.Sys.ContentType.Sys.ID
}

// StringField decodes a string field. It reports false when the field is
// absent or not a JSON string.
func (e *Entry) StringField(name string) (string, bool) {
	raw, ok := e.Fields[name]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// BoolField decodes a boolean field.
func (e *Entry) BoolField(name string) (bool, bool) {
	raw, ok := e.Fields[name]
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, false
	}
	return b, true
}

// DocumentField decodes a rich text field. A fresh tree is returned on every call.
func (e *Entry) DocumentField(name string) (*RichText, bool) {
	raw, ok := e.Fields[name]
	if !ok {
		return nil, false
	}
	var doc RichText
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, false
	}
	return &doc, true
}

// FirstStringField decodes a field that is either a string or a list of
// strings and returns the first non-blank value.
func (e *Entry) FirstStringField(name string) (string, bool) {
	if s, ok := e.StringField(name); ok {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	raw, ok := e.Fields[name]
	if !ok {
		return "", false
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", false
	}
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}
