package item

import "github.com/edmw/wishlist-sub003/internal/domain/sorting"

// Sortable item properties.
const (
	SortByID         = "id"
	SortByTitle      = "title"
	SortByPreference = "preference"
	SortByCreatedAt  = "createdAt"
	SortByModifiedAt = "modifiedAt"
)

// SortTable is the static table of sortable item properties.
var SortTable = sorting.NewTable(
	sorting.Key[Item]{Name: SortByID, Compare: func(a, b Item) int { return sorting.CompareUUID(a.ID.UUID(), b.ID.UUID()) }},
	sorting.Key[Item]{Name: SortByTitle, Compare: func(a, b Item) int { return sorting.CompareFold(a.Title, b.Title) }},
	sorting.Key[Item]{Name: SortByPreference, Compare: func(a, b Item) int { return sorting.CompareOrdered(a.Preference, b.Preference) }},
	sorting.Key[Item]{Name: SortByCreatedAt, Compare: func(a, b Item) int { return sorting.CompareTime(a.CreatedAt, b.CreatedAt) }},
	sorting.Key[Item]{Name: SortByModifiedAt, Compare: func(a, b Item) int { return sorting.CompareTime(a.ModifiedAt, b.ModifiedAt) }},
)
