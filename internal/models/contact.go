package models

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	Name    string  `json:"name" bson:"name" validate:"present"`
	Email   string  `json:"email" bson:"email" validate:"present,email"`
	Message string  `json:"message" bson:"message" validate:"present"`
	Subject *string `json:"subject" bson:"subject"`
	Source  *string `json:"source" bson:"source"` // page or campaign the message came from
}

func (ContactMessage) Collection() string { return ContactMessageCollection }
