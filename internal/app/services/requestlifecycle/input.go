package requestlifecycle

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dalemusser/libraryhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/libraryhub/internal/app/system/inputval"
	"github.com/dalemusser/libraryhub/internal/domain/errs"
	"github.com/dalemusser/libraryhub/internal/domain/models"
)

// MinYear is the earliest publication year a request may name.
const MinYear = 1000

// AuthorList must arrive as a JSON array of strings.
type AuthorList []string

func (a *AuthorList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return errs.Validation("Authors", "Authors must be a list of names.")
	}
	*a = arr
	return nil
}

// SubmitInput is the body of a new resource request.
type SubmitInput struct {
	Title              string             `json:"title" validate:"required,max=500" label:"Title"`
	Authors            AuthorList         `json:"authors" validate:"required,min=1,max=50,dive,max=200" label:"Authors"`
	ResourceType       models.RequestType `json:"resourceType" validate:"required,request_type" label:"Resource type"`
	PublisherOrJournal string             `json:"publisherOrJournal" validate:"max=300" label:"Publisher or journal"`
	Year               int                `json:"year" label:"Year"`
	DOI                string             `json:"doi" validate:"max=200" label:"DOI"`
	URL                string             `json:"url" validate:"omitempty,url,max=2000" label:"URL"`
	Description        string             `json:"description" validate:"required,max=5000" label:"Description"`
	Priority           models.Priority    `json:"priority" validate:"required,priority" label:"Priority"`
	ReasonForRequest   string             `json:"reasonForRequest" validate:"required,max=5000" label:"Reason for request"`
}

// build cleans and validates in. now supplies the current year bound.
func (in SubmitInput) build(now time.Time) (models.ResourceRequest, error) {
	in.Title = htmlsanitize.PlainText(in.Title)
	in.Authors = inputval.TrimAll(htmlsanitize.PlainTextAll(in.Authors))
	in.ResourceType = models.RequestType(strings.TrimSpace(string(in.ResourceType)))
	in.PublisherOrJournal = htmlsanitize.PlainText(in.PublisherOrJournal)
	in.DOI = strings.TrimSpace(in.DOI)
	in.URL = strings.TrimSpace(in.URL)
	in.Description = htmlsanitize.PlainText(in.Description)
	in.Priority = models.Priority(strings.TrimSpace(string(in.Priority)))
	in.ReasonForRequest = htmlsanitize.PlainText(in.ReasonForRequest)

	if res := inputval.Validate(in); res.HasErrors() {
		return models.ResourceRequest{}, errs.Validation(res.FirstField(), "%s", res.First())
	}
	if in.Year != 0 && (in.Year < MinYear || in.Year > now.Year()) {
		return models.ResourceRequest{}, errs.Validation("Year", "Year must be between %d and %d.", MinYear, now.Year())
	}

	return models.ResourceRequest{
		Title:              in.Title,
		Authors:            []string(in.Authors),
		ResourceType:       in.ResourceType,
		PublisherOrJournal: in.PublisherOrJournal,
		Year:               in.Year,
		DOI:                in.DOI,
		URL:                in.URL,
		Description:        in.Description,
		Priority:           in.Priority,
		ReasonForRequest:   in.ReasonForRequest,
	}, nil
}
