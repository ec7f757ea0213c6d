package domain

// Category represents a catalog category. Products reference categories by
// slug, so renaming a category display name never touches product rows.
type Category struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	NameEn string `json:"nameEn,omitempty"`
}
