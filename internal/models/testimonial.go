package models

// Testimonial is a quote from someone the site owner worked with.
type Testimonial struct {
	Name      string  `json:"name" bson:"name" validate:"present"`
	Role      *string `json:"role" bson:"role"`
	Quote     string  `json:"quote" bson:"quote" validate:"present"`
	Avatar    *string `json:"avatar" bson:"avatar" validate:"omitempty,http_url"`
	Company   *string `json:"company" bson:"company"`
	Highlight *bool   `json:"highlight" bson:"highlight"`
}

func (Testimonial) Collection() string { return TestimonialCollection }

func (t *Testimonial) ApplyDefaults() {
	if t.Highlight == nil {
		highlight := false
		t.Highlight = &highlight
	}
}
