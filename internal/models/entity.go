package models

import "time"

// Collection names, one per entity type.
const (
	ProjectCollection        = "project"
	TestimonialCollection    = "testimonial"
	GuestbookEntryCollection = "guestbookentry"
	BucketItemCollection     = "bucketitem"
	UseItemCollection        = "useitem"
	BlogPostCollection       = "blogpost"
	ContactMessageCollection = "contactmessage"
)

// Entity is the set of document types the API persists. Each type names the
// collection it lives in.
type Entity interface {
	Project | Testimonial | GuestbookEntry | BucketItem | UseItem | BlogPost | ContactMessage
	Collection() string
}

// Defaulter is implemented by entities that fill declared defaults after decoding.
type Defaulter interface {
	ApplyDefaults()
}

// Document is a stored entity together with the fields the storage layer stamps
// on insert. ID is the backend's identifier rendered as a string.
type Document[T any] struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      T
}

// CollectionOf returns the collection name for an entity type.
func CollectionOf[T Entity]() string {
	var zero T
	return zero.Collection()
}
