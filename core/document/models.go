package document

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/wakala/core"
)

// Document is a reference to an externally hosted file (drive, sheet, deck).
// The application only tracks and lists them; embedding is a client concern.
type Document struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Category   string      `json:"category"`
	UploadedBy null.String `json:"uploaded_by"` // employee ID
	CreatedAt  time.Time   `json:"created_at"`  // UTC
	UpdatedAt  time.Time   `json:"updated_at"`  // UTC
}

type NewDocument struct {
	Title      string      `json:"title" validate:"required"`
	URL        string      `json:"url" validate:"required,url"`
	Category   string      `json:"category"`
	UploadedBy null.String `json:"uploaded_by"`
}

func (nd *NewDocument) Validate(validate *validator.Validate) error {
	nd.Title = core.CleanString(nd.Title)
	nd.URL = core.CleanString(nd.URL)
	nd.Category = core.CleanString(nd.Category)
	return validate.Struct(nd)
}

type UpdateDocument struct {
	Title    string  `json:"title"`
	URL      string  `json:"url" validate:"omitempty,url"`
	Category *string `json:"category"`
}

func (ud *UpdateDocument) Validate(validate *validator.Validate, orig Document) error {
	title := core.CleanString(ud.Title)
	if title != "" {
		ud.Title = title
	} else {
		ud.Title = orig.Title
	}
	url := core.CleanString(ud.URL)
	if url != "" {
		ud.URL = url
	} else {
		ud.URL = orig.URL
	}
	return validate.Struct(ud)
}
