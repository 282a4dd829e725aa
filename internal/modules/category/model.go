package category

// Category is a locally owned product category. Slug is derived from Name on
// every write; ID never changes once assigned.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryInput holds the data for creating a category. The slug is computed,
// so callers only pass the name.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

// CategoryPatch is a partial update. A set Name also recomputes the slug.
type CategoryPatch struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=50"`
}

// ListResult is one window of the stored collection.
type ListResult struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
	Skip       int        `json:"skip"`
	Limit      int        `json:"limit"`
}
