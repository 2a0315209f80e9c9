// internal/domain/models/resourcerequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ResourceRequest is a user's request for a work not yet in the catalog.
//
// FulfilledByResourceID is a weak reference: it is set once by the
// fulfillment workflow and never cascades. The Resource it names may later
// be soft-deleted.
type ResourceRequest struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Title              string      `bson:"title" json:"title"`
	Authors            []string    `bson:"authors" json:"authors"`
	ResourceType       RequestType `bson:"resource_type" json:"resourceType"`
	PublisherOrJournal string      `bson:"publisher_or_journal" json:"publisherOrJournal"`
	Year               int         `bson:"year,omitempty" json:"year,omitempty"`
	DOI                string      `bson:"doi" json:"doi"`
	URL                string      `bson:"url" json:"url"`
	Description        string      `bson:"description" json:"description"`
	Priority           Priority    `bson:"priority" json:"priority"`
	ReasonForRequest   string      `bson:"reason_for_request" json:"reasonForRequest"`

	Status RequestStatus `bson:"status" json:"status"`

	RequestedByID   primitive.ObjectID `bson:"requested_by_id" json:"requestedById"`
	RequestedByName string             `bson:"requested_by_name" json:"requestedByName"`

	FulfilledByResourceID *primitive.ObjectID `bson:"fulfilled_by_resource_id" json:"fulfilledByResourceId"`
	FulfilledAt           *time.Time          `bson:"fulfilled_at" json:"fulfilledAt"`

	CreatedTime  time.Time `bson:"created_time" json:"createdTime"`
	ModifiedTime time.Time `bson:"modified_time" json:"modifiedTime"`
}

// IsFulfilled reports whether a Resource has been linked to this request.
func (r ResourceRequest) IsFulfilled() bool {
	return r.FulfilledByResourceID != nil
}
