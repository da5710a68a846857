package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultCategoryColor is the fallback swatch used when a category is
// created without an explicit color.
const DefaultCategoryColor = "#3B82F6"

type Category struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Color       string             `json:"color" bson:"color"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
}
