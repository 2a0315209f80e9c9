// internal/domain/models/enums.go
package models

// Closed value sets for catalog and request fields.
//
// The string values are what the database stores and what clients send; the
// slices below are the single source of truth for validation. A value not in
// its slice is rejected at the service boundary.

// Category is the subject area of a Resource.
type Category string

const (
	CategoryComputerScience      Category = "Computer Science"
	CategoryEnvironmentalScience Category = "Environmental Science"
	CategoryPhysics              Category = "Physics"
	CategoryEconomics            Category = "Economics"
	CategoryHealthcare           Category = "Healthcare"
	CategoryBiology              Category = "Biology"
	CategoryMathematics          Category = "Mathematics"
	CategoryEngineering          Category = "Engineering"
	CategoryElectronics          Category = "Electronics"
	CategoryMechanical           Category = "Mechanical"
	CategoryCivil                Category = "Civil"
	CategoryChemistry            Category = "Chemistry"
	CategoryOther                Category = "Other"
)

var Categories = []Category{
	CategoryComputerScience,
	CategoryEnvironmentalScience,
	CategoryPhysics,
	CategoryEconomics,
	CategoryHealthcare,
	CategoryBiology,
	CategoryMathematics,
	CategoryEngineering,
	CategoryElectronics,
	CategoryMechanical,
	CategoryCivil,
	CategoryChemistry,
	CategoryOther,
}

func (c Category) Valid() bool { return contains(Categories, c) }

// ResourceType is the kind of a catalogued Resource.
type ResourceType string

const (
	ResourceTypeResearchPaper   ResourceType = "Research Paper"
	ResourceTypeBook            ResourceType = "Book"
	ResourceTypeTextbook        ResourceType = "Textbook"
	ResourceTypeThesis          ResourceType = "Thesis"
	ResourceTypeConferencePaper ResourceType = "Conference Paper"
	ResourceTypeArticle         ResourceType = "Article"
	ResourceTypeJournal         ResourceType = "Journal"
	ResourceTypeReport          ResourceType = "Report"
	ResourceTypeOther           ResourceType = "Other"
)

var ResourceTypes = []ResourceType{
	ResourceTypeResearchPaper,
	ResourceTypeBook,
	ResourceTypeTextbook,
	ResourceTypeThesis,
	ResourceTypeConferencePaper,
	ResourceTypeArticle,
	ResourceTypeJournal,
	ResourceTypeReport,
	ResourceTypeOther,
}

func (t ResourceType) Valid() bool { return contains(ResourceTypes, t) }

// Publisher is the publishing house of a Resource.
type Publisher string

const (
	PublisherIEEE     Publisher = "IEEE"
	PublisherSpringer Publisher = "Springer"
	PublisherElsevier Publisher = "Elsevier"
	PublisherNature   Publisher = "Nature"
	PublisherScience  Publisher = "Science"
	PublisherACM      Publisher = "ACM"
	PublisherWiley    Publisher = "Wiley"
	PublisherMITPress Publisher = "MIT Press"
	PublisherOther    Publisher = "Other"
)

var Publishers = []Publisher{
	PublisherIEEE,
	PublisherSpringer,
	PublisherElsevier,
	PublisherNature,
	PublisherScience,
	PublisherACM,
	PublisherWiley,
	PublisherMITPress,
	PublisherOther,
}

func (p Publisher) Valid() bool { return contains(Publishers, p) }

// Access is a visibility level on a Resource. Only Public exists today.
type Access string

const AccessPublic Access = "Public"

var AccessLevels = []Access{AccessPublic}

func (a Access) Valid() bool { return contains(AccessLevels, a) }

// RequestType is the kind of work asked for in a ResourceRequest. It is a
// narrower set than ResourceType.
type RequestType string

const (
	RequestTypeBook    RequestType = "Book"
	RequestTypeJournal RequestType = "Journal"
	RequestTypeArticle RequestType = "Article"
	RequestTypeReport  RequestType = "Report"
	RequestTypeThesis  RequestType = "Thesis"
	RequestTypeOther   RequestType = "Other"
)

var RequestTypes = []RequestType{
	RequestTypeBook,
	RequestTypeJournal,
	RequestTypeArticle,
	RequestTypeReport,
	RequestTypeThesis,
	RequestTypeOther,
}

func (t RequestType) Valid() bool { return contains(RequestTypes, t) }

// Priority is how urgently the requester needs the work.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool { return contains(Priorities, p) }

// RequestStatus is the lifecycle state of a ResourceRequest.
//
// Transitions are unrestricted: an admin may move a request between any two
// states. Fulfillment always lands on Approved.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

var RequestStatuses = []RequestStatus{StatusPending, StatusApproved, StatusRejected}

func (s RequestStatus) Valid() bool { return contains(RequestStatuses, s) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
