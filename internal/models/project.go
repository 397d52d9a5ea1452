package models

// Project represents a portfolio project card.
type Project struct {
	Title       string   `json:"title" bson:"title" validate:"present"`
	Slug        string   `json:"slug" bson:"slug" gorm:"index" validate:"present"`
	Description string   `json:"description" bson:"description" validate:"present"`
	Tech        []string `json:"tech" bson:"tech" gorm:"serializer:json"`
	Image       *string  `json:"image" bson:"image" validate:"omitempty,http_url"`
	RepoURL     *string  `json:"repo_url" bson:"repo_url" validate:"omitempty,http_url"`
	LiveURL     *string  `json:"live_url" bson:"live_url" validate:"omitempty,http_url"`
	Featured    bool     `json:"featured" bson:"featured"`
	Stars       *int     `json:"stars" bson:"stars"` // cached GitHub star count
}

func (Project) Collection() string { return ProjectCollection }

func (p *Project) ApplyDefaults() {
	if p.Tech == nil {
		p.Tech = []string{}
	}
}
