package models

// UseItem is a tool, device or piece of software on the "uses" page.
type UseItem struct {
	Category    string  `json:"category" bson:"category" validate:"present"`
	Name        string  `json:"name" bson:"name" validate:"present"`
	Description *string `json:"description" bson:"description"`
	Link        *string `json:"link" bson:"link" validate:"omitempty,http_url"`
}

func (UseItem) Collection() string { return UseItemCollection }
