// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

import (
	"slices"
	"strings"
)

// CategoryRules holds the data-driven category and product-type heuristics.
// The match and relatedness predicates and the anti-duplicate name heuristic
// are all lookups against these tables, so the lists can be tuned per
// deployment without touching scoring logic.
type CategoryRules struct {
	// FamilyMarkers are substrings that place a category label into one
	// umbrella family. Two labels sharing a family count as the same
	// category (e.g. "mens-shirts" and "clothing").
	FamilyMarkers []string `json:"family_markers" koanf:"family_markers"`

	// UmbrellaCategory is the canonical label of the family; when the
	// queried product carries it, labels containing any UmbrellaSubMarkers
	// also count as the same category.
	UmbrellaCategory   string   `json:"umbrella_category" koanf:"umbrella_category"`
	UmbrellaSubMarkers []string `json:"umbrella_sub_markers" koanf:"umbrella_sub_markers"`

	// Related lists broader-affinity rules, evaluated in order; the first
	// rule whose CurrentMarkers match the queried category decides.
	Related []RelatedRule `json:"related" koanf:"related"`

	// ProductTypeKeywords mark two products as the same type when both
	// names contain the same keyword.
	ProductTypeKeywords []string `json:"product_type_keywords" koanf:"product_type_keywords"`

	// KeywordAliases extend the keyword check across synonyms: a name
	// containing Keyword is the same type as one containing any of Matches.
	KeywordAliases []KeywordAlias `json:"keyword_aliases" koanf:"keyword_aliases"`

	// BrandGroups are brand token sets; two names each containing any
	// token from the same group are the same product type (two luxury
	// watch brands are both watches).
	BrandGroups [][]string `json:"brand_groups" koanf:"brand_groups"`

	// MinWordLen is the minimum length for a name word to count as
	// significant in the shared-word fallback and ranking tiebreak.
	MinWordLen int `json:"min_word_len" koanf:"min_word_len"`

	// MaxSharedWords is the largest number of shared significant words two
	// names may have before they are judged the same product type.
	MaxSharedWords int `json:"max_shared_words" koanf:"max_shared_words"`
}

// RelatedRule maps a queried-category family to the categories related to it.
type RelatedRule struct {
	// CurrentMarkers identify the queried category: it matches when its
	// label contains any of these substrings.
	CurrentMarkers []string `json:"current_markers" koanf:"current_markers"`

	// RelatedMarkers identify related candidates by substring.
	RelatedMarkers []string `json:"related_markers" koanf:"related_markers"`

	// RelatedExact identifies related candidates by exact label.
	RelatedExact []string `json:"related_exact" koanf:"related_exact"`
}

// KeywordAlias links a keyword to the synonyms it collides with.
type KeywordAlias struct {
	Keyword string   `json:"keyword" koanf:"keyword"`
	Matches []string `json:"matches" koanf:"matches"`
}

// DefaultCategoryRules returns the rule tables for the stock catalog
// taxonomy. The keyword and brand lists are heuristics tuned against the
// demo catalog and are expected to be adjusted per deployment.
func DefaultCategoryRules() CategoryRules {
	return CategoryRules{
		FamilyMarkers:    []string{"mens-", "clothing"},
		UmbrellaCategory: "clothing",
		UmbrellaSubMarkers: []string{
			"shirt", "shoe", "watch", "pant", "jeans", "dress", "mens-",
		},
		Related: []RelatedRule{
			{
				CurrentMarkers: []string{"mens-", "clothing"},
				RelatedMarkers: []string{"clothing", "mens-"},
				RelatedExact:   []string{"accessories"},
			},
			{
				CurrentMarkers: []string{"electronics"},
				RelatedMarkers: []string{"electronics"},
				RelatedExact:   []string{"accessories"},
			},
			{
				CurrentMarkers: []string{"beauty"},
				RelatedMarkers: []string{"beauty"},
				RelatedExact:   []string{"accessories"},
			},
			{
				CurrentMarkers: []string{"home", "kitchen"},
				RelatedMarkers: []string{"home", "kitchen"},
			},
			{
				CurrentMarkers: []string{"sports"},
				RelatedMarkers: []string{"sports", "clothing"},
				RelatedExact:   []string{"accessories"},
			},
		},
		ProductTypeKeywords: []string{
			"watch", "shirt", "shoe", "sneaker", "sneakers", "boot", "boots",
			"jordan", "cleat", "cleats", "trainer", "trainers",
			"jacket", "dress", "jeans", "pant", "pants",
			"phone", "iphone", "samsung", "laptop", "tablet",
			"earbud", "earbuds", "headphone", "headphones",
			"mouse", "keyboard", "monitor", "tv", "television",
			"camera", "speaker", "charger", "cable",
		},
		KeywordAliases: []KeywordAlias{
			{Keyword: "jordan", Matches: []string{"sneaker", "shoe", "cleat", "trainer"}},
		},
		BrandGroups: [][]string{
			{"rolex", "longines", "omega", "tag heuer", "breitling", "patek", "audemars"},
		},
		MinWordLen:     4,
		MaxSharedWords: 2,
	}
}

// Clone returns a deep copy of the rule tables.
func (r CategoryRules) Clone() CategoryRules {
	out := r
	out.FamilyMarkers = slices.Clone(r.FamilyMarkers)
	out.UmbrellaSubMarkers = slices.Clone(r.UmbrellaSubMarkers)
	out.Related = make([]RelatedRule, len(r.Related))
	for i, rule := range r.Related {
		out.Related[i] = RelatedRule{
			CurrentMarkers: slices.Clone(rule.CurrentMarkers),
			RelatedMarkers: slices.Clone(rule.RelatedMarkers),
			RelatedExact:   slices.Clone(rule.RelatedExact),
		}
	}
	out.ProductTypeKeywords = slices.Clone(r.ProductTypeKeywords)
	out.KeywordAliases = make([]KeywordAlias, len(r.KeywordAliases))
	for i, alias := range r.KeywordAliases {
		out.KeywordAliases[i] = KeywordAlias{
			Keyword: alias.Keyword,
			Matches: slices.Clone(alias.Matches),
		}
	}
	out.BrandGroups = make([][]string, len(r.BrandGroups))
	for i, group := range r.BrandGroups {
		out.BrandGroups[i] = slices.Clone(group)
	}
	return out
}

// SameCategory reports whether candidate counts as the same category as
// current. Both labels must already be normalized (trimmed, lowercased).
// An empty current category never matches.
func (r *CategoryRules) SameCategory(current, candidate string) bool {
	if current == "" || candidate == "" {
		return false
	}
	if current == candidate {
		return true
	}

	// Cross-labeled variants of one family count as the same category.
	if containsAny(current, r.FamilyMarkers) && containsAny(candidate, r.FamilyMarkers) {
		return true
	}

	// The umbrella label matches any of its sub-category labels.
	if current == r.UmbrellaCategory && containsAny(candidate, r.UmbrellaSubMarkers) {
		return true
	}

	return false
}

// RelatedCategory reports whether candidate has broader affinity with
// current per the relatedness table. Both labels must be normalized.
func (r *CategoryRules) RelatedCategory(current, candidate string) bool {
	if current == "" || candidate == "" {
		return false
	}
	for _, rule := range r.Related {
		if !containsAny(current, rule.CurrentMarkers) {
			continue
		}
		if containsAny(candidate, rule.RelatedMarkers) {
			return true
		}
		return slices.Contains(rule.RelatedExact, candidate)
	}
	return false
}

// SameProductType reports whether two product names describe the same kind
// of item, the anti-duplicate heuristic of the presentation filter. Names
// must be lowercased.
func (r *CategoryRules) SameProductType(name1, name2 string) bool {
	// Shared type keyword.
	for _, kw := range r.ProductTypeKeywords {
		if strings.Contains(name1, kw) && strings.Contains(name2, kw) {
			return true
		}
	}

	// Keyword synonyms (e.g. "jordan" vs "sneaker").
	for _, alias := range r.KeywordAliases {
		if strings.Contains(name1, alias.Keyword) && containsAny(name2, alias.Matches) {
			return true
		}
		if strings.Contains(name2, alias.Keyword) && containsAny(name1, alias.Matches) {
			return true
		}
	}

	// Two brands from one group imply the same product type.
	for _, group := range r.BrandGroups {
		if containsAny(name1, group) && containsAny(name2, group) {
			return true
		}
	}

	// Fallback: too many shared significant words.
	return r.sharedSignificantWords(name1, name2) > r.MaxSharedWords
}

// sharedSignificantWords counts distinct words of at least MinWordLen
// present in both names.
func (r *CategoryRules) sharedSignificantWords(name1, name2 string) int {
	words1 := r.significantWords(name1)
	count := 0
	for _, w := range strings.Fields(name2) {
		if len(w) >= r.MinWordLen {
			if _, ok := words1[w]; ok {
				count++
				delete(words1, w)
			}
		}
	}
	return count
}

// KeywordOverlap counts significant candidate words present in the query
// text, the middle tier of the ranking order.
func (r *CategoryRules) KeywordOverlap(query, candidate string) int {
	queryWords := r.significantWords(query)
	count := 0
	for _, w := range strings.Fields(candidate) {
		if len(w) >= r.MinWordLen {
			if _, ok := queryWords[w]; ok {
				count++
			}
		}
	}
	return count
}

// significantWords returns the set of words in text meeting MinWordLen.
func (r *CategoryRules) significantWords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		if len(w) >= r.MinWordLen {
			out[w] = struct{}{}
		}
	}
	return out
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
