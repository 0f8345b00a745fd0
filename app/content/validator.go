// Package content validates raw CMS entries and maps them onto posts.
package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"folio/app/cms"
	"folio/app/models"
)

// entryView is the subset of an entry that must be well formed before mapping.
type entryView struct {
	Title       string     `validate:"notblank"`
	Slug        string     `validate:"notblank"`
	ContentNode string     `validate:"eq=document"`
	PublishedAt *time.Time `validate:"required"`
}

func viewOf(entry *models.Entry) entryView {
	v := entryView{PublishedAt: entry.Sys.PublishedAt}
	v.Title, _ = entry.StringField("title")
	v.Slug, _ = entry.StringField("slug")
	if doc, ok := entry.DocumentField("content"); ok {
		v.ContentNode = doc.NodeType
	}
	return v
}

// Validate checks an entry against the minimal rules for a publishable post:
// non-blank title and slug, a rich text document as content and a publish
// timestamp. It returns a validation-failed error naming the first broken rule.
func Validate(entry *models.Entry) error {
	const op = "content.validate"

	if entry == nil {
		return cms.NewError(cms.KindValidationFailed, op, errors.New("entry is nil"))
	}

	err := models.Validator().Struct(viewOf(entry))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return cms.NewError(cms.KindValidationFailed, op,
			fmt.Errorf("entry %s: %s failed %q", entry.Sys.ID, fieldName(fe.Field()), fe.Tag()))
	}
	return cms.NewError(cms.KindValidationFailed, op, err)
}

// IsValid reports whether entry passes Validate.
func IsValid(entry *models.Entry) bool {
	return Validate(entry) == nil
}

func fieldName(field string) string {
	switch field {
	case "ContentNode":
		return "content"
	case "PublishedAt":
		return "sys.publishedAt"
	case "Title":
		return "title"
	case "Slug":
		return "slug"
	default:
		return field
	}
}
