package models

// BucketItem is one entry of the bucket list.
type BucketItem struct {
	Title string  `json:"title" bson:"title" validate:"present"`
	Done  bool    `json:"done" bson:"done"`
	Notes *string `json:"notes" bson:"notes"`
}

func (BucketItem) Collection() string { return BucketItemCollection }
