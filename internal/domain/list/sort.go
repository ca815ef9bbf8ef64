package list

import "github.com/edmw/wishlist-sub003/internal/domain/sorting"

// Sortable list properties.
const (
	SortByID         = "id"
	SortByTitle      = "title"
	SortByCreatedAt  = "createdAt"
	SortByModifiedAt = "modifiedAt"
)

// SortTable is the static table of sortable list properties.
var SortTable = sorting.NewTable(
	sorting.Key[List]{Name: SortByID, Compare: func(a, b List) int { return sorting.CompareUUID(a.ID.UUID(), b.ID.UUID()) }},
	sorting.Key[List]{Name: SortByTitle, Compare: func(a, b List) int { return sorting.CompareFold(a.Title, b.Title) }},
	sorting.Key[List]{Name: SortByCreatedAt, Compare: func(a, b List) int { return sorting.CompareTime(a.CreatedAt, b.CreatedAt) }},
	sorting.Key[List]{Name: SortByModifiedAt, Compare: func(a, b List) int { return sorting.CompareTime(a.ModifiedAt, b.ModifiedAt) }},
)
