package catalog

import (
	"encoding/json"
	"strings"

	"github.com/dalemusser/libraryhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/libraryhub/internal/app/system/inputval"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/libraryhub/internal/domain/models"
)

// AccessList accepts a JSON array of strings or a string holding a
// JSON-encoded array (the multipart admin form sends the latter). Anything
// else is a validation error.
type AccessList []string

func (a *AccessList) UnmarshalJSON(b []byte) error {
	out, err := decodeList(b)
	if err != nil {
		return errs.Validation("Access", "Invalid access format")
	}
	*a = out
	return nil
}

// KeywordList accepts the same forms as AccessList but decodes a malformed
// value as an empty list.
type KeywordList []string

func (k *KeywordList) UnmarshalJSON(b []byte) error {
	out, err := decodeList(b)
	if err != nil {
		out = []string{}
	}
	*k = out
	return nil
}

func decodeList(b []byte) ([]string, error) {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		return arr, nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if err := json.Unmarshal([]byte(s), &arr); err != nil {
		return nil, err
	}
	return arr, nil
}

// ResourceInput is the admin-editable part of a Resource.
type ResourceInput struct {
	Title        string              `json:"title" validate:"required,max=500" label:"Title"`
	Abstract     string              `json:"abstract" validate:"max=10000" label:"Abstract"`
	Content      string              `json:"content" validate:"max=200000" label:"Content"`
	Keywords     KeywordList         `json:"keywords" validate:"max=100,dive,max=200" label:"Keywords"`
	AuthorName   string              `json:"authorName" validate:"max=300" label:"Author name"`
	Category     models.Category     `json:"category" validate:"omitempty,category" label:"Category"`
	ResourceType models.ResourceType `json:"resourceType" validate:"omitempty,resource_type" label:"Resource type"`
	Publisher    models.Publisher    `json:"publisher" validate:"omitempty,publisher" label:"Publisher"`
	Access       AccessList          `json:"access" validate:"required,min=1,dive,access" label:"Access"`
	FilePath     string              `json:"filePath" validate:"max=1000" label:"File path"`
	FileURL      string              `json:"fileUrl" validate:"max=2000" label:"File URL"`
}

// Build cleans and validates in and returns the Resource it describes.
// Access is always stored as {"Public"}; the input only has to name
// recognised levels. The returned resource is active. Keywords stay nil when
// the input omits them.
func (in ResourceInput) Build() (models.Resource, error) {
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Abstract = htmlsanitize.PlainText(in.Abstract)
	in.Content = htmlsanitize.PlainText(in.Content)
	in.AuthorName = htmlsanitize.PlainText(in.AuthorName)
	if in.Keywords != nil {
		in.Keywords = inputval.TrimAll(htmlsanitize.PlainTextAll(in.Keywords))
	}
	in.Access = inputval.TrimAll(in.Access)
	in.Category = models.Category(strings.TrimSpace(string(in.Category)))
	in.ResourceType = models.ResourceType(strings.TrimSpace(string(in.ResourceType)))
	in.Publisher = models.Publisher(strings.TrimSpace(string(in.Publisher)))
	in.FilePath = strings.TrimSpace(in.FilePath)
	in.FileURL = strings.TrimSpace(in.FileURL)

	if res := inputval.Validate(in); res.HasErrors() {
		return models.Resource{}, errs.Validation(res.FirstField(), "%s", res.First())
	}

	return models.Resource{
		Title:        in.Title,
		Abstract:     in.Abstract,
		Content:      in.Content,
		Keywords:     []string(in.Keywords),
		AuthorName:   in.AuthorName,
		Category:     in.Category,
		ResourceType: in.ResourceType,
		Publisher:    in.Publisher,
		Access:       []models.Access{models.AccessPublic},
		IsActive:     true,
		FilePath:     in.FilePath,
		FileURL:      in.FileURL,
	}, nil
}
