package domain

// SearchableProduct represents a catalog product as the search filter sees it.
// Name and Description carry the primary (Greek) storefront text, the *En
// fields the English translations. The label slices and the category fields
// are optional; absent values simply never match.
type SearchableProduct struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NameEn        string   `json:"nameEn"`
	Description   string   `json:"description"`
	DescriptionEn string   `json:"descriptionEn,omitempty"`
	Colors        []string `json:"colors"`
	Materials     []string `json:"materials"`
	Features      []string `json:"features"`
	Tags          []string `json:"tags,omitempty"`
	Category      string   `json:"category,omitempty"`
	Subcategory   string   `json:"subcategory,omitempty"`
}
