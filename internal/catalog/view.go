package catalog

import (
	"strings"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// AllSentinel is the "show everything" label used by the menu frontend.
const AllSentinel = "Все"

func IsAllSentinel(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == AllSentinel || strings.EqualFold(s, "all")
}

// Selection scopes the menu to a top-level category and optionally one of its
// subcategories, by id. An empty or all-sentinel CategoryID selects everything.
type Selection struct {
	CategoryID    string
	SubcategoryID string
}

// Filter projects items onto sel, keeping input order. tree is the output of
// ListTree. A selection that does not resolve yields an empty result.
func Filter(items []model.ItemView, tree []model.Category, sel Selection) []model.ItemView {
	if IsAllSentinel(sel.CategoryID) && sel.SubcategoryID == "" {
		out := make([]model.ItemView, len(items))
		copy(out, items)
		return out
	}

	allowed := allowedCategories(tree, sel)
	out := make([]model.ItemView, 0)
	if len(allowed) == 0 {
		return out
	}
	for _, it := range items {
		if _, ok := allowed[it.CategoryID]; ok {
			out = append(out, it)
		}
	}
	return out
}

func allowedCategories(tree []model.Category, sel Selection) map[string]struct{} {
	allowed := make(map[string]struct{})

	if IsAllSentinel(sel.CategoryID) {
		// Subcategory alone: accept it under any parent.
		for _, top := range tree {
			for _, sub := range top.Subcategories {
				if sub.ID == sel.SubcategoryID {
					allowed[sub.ID] = struct{}{}
					return allowed
				}
			}
		}
		return allowed
	}

	for _, top := range tree {
		if top.ID != sel.CategoryID {
			continue
		}
		if sel.SubcategoryID != "" {
			for _, sub := range top.Subcategories {
				if sub.ID == sel.SubcategoryID {
					allowed[sub.ID] = struct{}{}
				}
			}
			return allowed
		}
		allowed[top.ID] = struct{}{}
		for _, sub := range top.Subcategories {
			allowed[sub.ID] = struct{}{}
		}
		return allowed
	}
	return allowed
}

// SelectionFromNames resolves display names, as the menu bar sends them, to
// ids. The subcategory is looked up only under the chosen category, so equal
// names under different parents never collide. ok is false when something
// does not resolve.
func SelectionFromNames(tree []model.Category, category, subcategory string) (Selection, bool) {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)

	if IsAllSentinel(category) {
		return Selection{CategoryID: AllSentinel}, true
	}

	for _, top := range tree {
		if top.Name != category {
			continue
		}
		sel := Selection{CategoryID: top.ID}
		if subcategory == "" {
			return sel, true
		}
		for _, sub := range top.Subcategories {
			if sub.Name == subcategory {
				sel.SubcategoryID = sub.ID
				return sel, true
			}
		}
		return Selection{}, false
	}
	return Selection{}, false
}
