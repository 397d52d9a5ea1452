// Package serialize renders stored documents into their public JSON shape.
package serialize

import (
	"fmt"

	"github.com/goccy/go-json"

	"portfolio/internal/models"
)

// View is the public representation of a document: the entity fields plus a
// string "id" and the insert timestamps. Backend identifier fields never
// appear in a View.
type View map[string]any

// internal identifier keys a backend might leave in an encoded entity
var internalKeys = []string{"_id", "ID"}

// Document converts doc into a View. A nil doc yields a nil View.
func Document[T any](doc *models.Document[T]) (View, error) {
	if doc == nil {
		return nil, nil
	}

	encoded, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("encode document %s: %w", doc.ID, err)
	}
	view := View{}
	if err := json.Unmarshal(encoded, &view); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", doc.ID, err)
	}

	for _, key := range internalKeys {
		delete(view, key)
	}
	view["id"] = doc.ID
	if !doc.CreatedAt.IsZero() {
		view["created_at"] = doc.CreatedAt
		view["updated_at"] = doc.UpdatedAt
	}
	return view, nil
}

// Documents converts a slice of documents, preserving order. The result is
// never nil so it encodes as an empty JSON array.
func Documents[T any](docs []models.Document[T]) ([]View, error) {
	views := make([]View, 0, len(docs))
	for i := range docs {
		view, err := Document(&docs[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}
