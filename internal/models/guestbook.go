package models

// GuestbookEntry is a message left by a visitor.
type GuestbookEntry struct {
	Name    string  `json:"name" bson:"name" validate:"present"`
	Message string  `json:"message" bson:"message" validate:"present"`
	Avatar  *string `json:"avatar" bson:"avatar" validate:"omitempty,http_url"`
	Website *string `json:"website" bson:"website" validate:"omitempty,http_url"`
}

func (GuestbookEntry) Collection() string { return GuestbookEntryCollection }
