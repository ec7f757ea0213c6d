package search

import (
	"strings"
	"unicode/utf8"

	"github.com/probagno/backend/internal/domain"
)

// MatchesProduct reports whether a product matches the search term on any
// searchable field: names, descriptions, colors, materials, features, tags,
// category, and subcategory. An empty or whitespace-only term means "no
// filter" and matches every product. A nil product never matches, and
// neither does a term that normalizes below two runes. The first matching
// field short-circuits the rest.
func MatchesProduct(product *domain.SearchableProduct, searchTerm string) bool {
	if strings.TrimSpace(searchTerm) == "" {
		return true
	}
	if product == nil {
		return false
	}
	if utf8.RuneCountInString(Normalize(searchTerm)) < minQueryLen {
		return false
	}

	return Matches(searchTerm, product.Name) ||
		Matches(searchTerm, product.NameEn) ||
		Matches(searchTerm, product.Description) ||
		Matches(searchTerm, product.DescriptionEn) ||
		MatchesAny(searchTerm, product.Colors) ||
		MatchesAny(searchTerm, product.Materials) ||
		MatchesAny(searchTerm, product.Features) ||
		MatchesAny(searchTerm, product.Tags) ||
		Matches(searchTerm, product.Category) ||
		Matches(searchTerm, product.Subcategory)
}

// ExplainProduct lists which product fields match the search term, one
// "label: value" entry per hit. Unlike MatchesProduct it never stops early:
// every field is evaluated so the result is the complete hit set. Nil
// products and non-matching terms yield an empty list.
func ExplainProduct(product *domain.SearchableProduct, searchTerm string) []string {
	var hits []string
	if product == nil {
		return hits
	}

	if Matches(searchTerm, product.Name) {
		hits = append(hits, "name: "+product.Name)
	}
	if Matches(searchTerm, product.NameEn) {
		hits = append(hits, "nameEn: "+product.NameEn)
	}
	if Matches(searchTerm, product.Description) {
		hits = append(hits, "description: "+product.Description)
	}
	if Matches(searchTerm, product.DescriptionEn) {
		hits = append(hits, "descriptionEn: "+product.DescriptionEn)
	}
	for _, color := range product.Colors {
		if Matches(searchTerm, color) {
			hits = append(hits, "color: "+color)
		}
	}
	for _, material := range product.Materials {
		if Matches(searchTerm, material) {
			hits = append(hits, "material: "+material)
		}
	}
	for _, feature := range product.Features {
		if Matches(searchTerm, feature) {
			hits = append(hits, "feature: "+feature)
		}
	}
	for _, tag := range product.Tags {
		if Matches(searchTerm, tag) {
			hits = append(hits, "tag: "+tag)
		}
	}
	if Matches(searchTerm, product.Category) {
		hits = append(hits, "category: "+product.Category)
	}
	if Matches(searchTerm, product.Subcategory) {
		hits = append(hits, "subcategory: "+product.Subcategory)
	}

	return hits
}
