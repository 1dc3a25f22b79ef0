package services

import (
	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
)

// HiddenCategoryIDs collects the ids of categories whose online visibility
// flag is explicitly false. A category with no flag at all is visible.
func HiddenCategoryIDs(objects []domain.CatalogObject) map[string]struct{} {
	hidden := make(map[string]struct{})
	for _, object := range objects {
		if object.Type != domain.CatalogTypeCategory || object.CategoryData == nil {
			continue
		}
		if object.CategoryData.OnlineVisibility != nil && !*object.CategoryData.OnlineVisibility {
			hidden[object.ID] = struct{}{}
		}
	}
	return hidden
}

// FilterCatalogObjects removes item objects that are archived, privately
// visible, or belong to a hidden category, and removes the hidden categories
// themselves. Everything else passes through untouched, preserving order.
func FilterCatalogObjects(objects []domain.CatalogObject, hidden map[string]struct{}) []domain.CatalogObject {
	if len(objects) == 0 {
		return objects
	}
	out := make([]domain.CatalogObject, 0, len(objects))
	for _, object := range objects {
		switch object.Type {
		case domain.CatalogTypeItem:
			if itemVisible(object.ItemData, hidden) {
				out = append(out, object)
			}
		case domain.CatalogTypeCategory:
			if _, isHidden := hidden[object.ID]; !isHidden {
				out = append(out, object)
			}
		default:
			out = append(out, object)
		}
	}
	return out
}

// itemVisible applies the storefront item rules: archived and private items
// are dropped, then category membership is checked against the hidden set
// using the current-style reference list with the legacy single field as
// fallback. An item with no category reference is never dropped by the
// category rule.
func itemVisible(item *domain.ItemData, hidden map[string]struct{}) bool {
	if item == nil {
		return true
	}
	if item.IsArchived || item.Visibility == domain.VisibilityPrivate {
		return false
	}
	if len(item.Categories) > 0 {
		for _, ref := range item.Categories {
			if _, isHidden := hidden[ref.ID]; isHidden {
				return false
			}
		}
		return true
	}
	if item.CategoryID != "" {
		if _, isHidden := hidden[item.CategoryID]; isHidden {
			return false
		}
	}
	return true
}
