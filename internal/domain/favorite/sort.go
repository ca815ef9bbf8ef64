package favorite

import "github.com/edmw/wishlist-sub003/internal/domain/sorting"

// Sortable favorite properties.
const (
	SortByID        = "id"
	SortByCreatedAt = "createdAt"
)

// SortTable is the static table of sortable favorite properties.
var SortTable = sorting.NewTable(
	sorting.Key[Favorite]{Name: SortByID, Compare: func(a, b Favorite) int { return sorting.CompareUUID(a.ID.UUID(), b.ID.UUID()) }},
	sorting.Key[Favorite]{Name: SortByCreatedAt, Compare: func(a, b Favorite) int { return sorting.CompareTime(a.CreatedAt, b.CreatedAt) }},
)
