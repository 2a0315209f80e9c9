// internal/domain/models/resource.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is one catalogued academic work.
//
// Resources are never physically removed; IsActive=false hides them from
// public listings and search while keeping them fetchable by ID so that any
// ResourceRequest.FulfilledByResourceID pointing at them stays valid.
type Resource struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped

	Abstract   string   `bson:"abstract,omitempty" json:"abstract,omitempty"`
	Content    string   `bson:"content,omitempty" json:"content,omitempty"`
	Keywords   []string `bson:"keywords" json:"keywords"`
	AuthorName string   `bson:"author_name,omitempty" json:"authorName,omitempty"`

	Category     Category     `bson:"category,omitempty" json:"category,omitempty"`
	ResourceType ResourceType `bson:"resource_type,omitempty" json:"resourceType,omitempty"`
	Publisher    Publisher    `bson:"publisher,omitempty" json:"publisher,omitempty"`
	Access       []Access     `bson:"access" json:"access"`
	IsActive     bool         `bson:"is_active" json:"isActive"`

	FilePath string `bson:"file_path,omitempty" json:"filePath,omitempty"`
	FileURL  string `bson:"file_url,omitempty" json:"fileUrl,omitempty"`

	DownloadCount int64 `bson:"download_count" json:"downloadCount"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasAccess reports whether a is one of the resource's access levels.
func (r Resource) HasAccess(a Access) bool {
	for _, v := range r.Access {
		if v == a {
			return true
		}
	}
	return false
}

// ResourceFilter describes a catalog query. Zero values mean "no constraint".
type ResourceFilter struct {
	Query        string // substring over title, abstract, content, keywords, author
	Category     Category
	ResourceType ResourceType
	Publisher    Publisher
	Author       string // substring over author name
	ActiveOnly   bool
	PublicOnly   bool
}

// ResourceStats is the admin dashboard summary.
type ResourceStats struct {
	TotalResources  int64      `json:"totalResources"`
	ActiveResources int64      `json:"activeResources"`
	CategoryCount   int        `json:"categoryCount"`
	Recent          []Resource `json:"recentResources"`
	Popular         []Resource `json:"popularResources"`
}
