package models

// BlogPost is a blog article. Only published posts are listed by default.
type BlogPost struct {
	Title       string    `json:"title" bson:"title" validate:"present"`
	Slug        string    `json:"slug" bson:"slug" gorm:"index" validate:"present"`
	Excerpt     *string   `json:"excerpt" bson:"excerpt"`
	Content     *string   `json:"content" bson:"content"` // markdown
	Tags        []string  `json:"tags" bson:"tags" gorm:"serializer:json"`
	CoverImage  *string   `json:"cover_image" bson:"cover_image" validate:"omitempty,http_url"`
	Published   bool      `json:"published" bson:"published" gorm:"index"`
	PublishedAt *DateTime `json:"published_at" bson:"published_at"`
}

func (BlogPost) Collection() string { return BlogPostCollection }

func (p *BlogPost) ApplyDefaults() {
	if p.Tags == nil {
		p.Tags = []string{}
	}
}
